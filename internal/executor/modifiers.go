package executor

import (
	"strings"

	"golang.org/x/text/cases"

	"aria/internal/command"
	"aria/internal/remote"
)

// deviceVolumeScale is the raw device volume range ceiling.
const deviceVolumeScale = 65535.0

// applyModifiers applies any state modifiers attached to an action command,
// in a fixed order: absolute volume, relative volume, mode, device transfer.
func (e *Executor) applyModifiers(cmd *command.Command) error {
	if cmd.Volume != nil {
		volume := *cmd.Volume
		if volume < 0 || volume > 100 {
			return newCommandError(cmd, "volume must be 0-100, got %d", volume)
		}
		player, err := e.playerHandle()
		if err != nil {
			return err
		}
		fraction := float64(volume) / 100
		if fraction > e.maxVolume {
			fraction = e.maxVolume
		}
		if err := player.SetVolume(fraction); err != nil {
			return err
		}
	}

	if cmd.VolumeRel != nil {
		player, err := e.playerHandle()
		if err != nil {
			return err
		}
		devices, err := player.Devices()
		if err != nil {
			return err
		}
		active, ok := findDevice(devices, devices.ActiveID)
		if !ok {
			return newCommandError(cmd, "cannot determine current volume for relative adjustment")
		}
		current := float64(active.Volume) / deviceVolumeScale
		target := current + float64(*cmd.VolumeRel)/100
		if target < 0 {
			target = 0
		}
		if target > e.maxVolume {
			target = e.maxVolume
		}
		if err := player.SetVolume(target); err != nil {
			return err
		}
	}

	if cmd.Mode != "" {
		player, err := e.playerHandle()
		if err != nil {
			return err
		}
		// Two independent switches; "normal" clears both.
		if err := player.SetShuffle(cmd.Mode == "shuffle"); err != nil {
			return err
		}
		if err := player.RepeatTrack(cmd.Mode == "repeat"); err != nil {
			return err
		}
	}

	if cmd.Device != "" {
		player, err := e.playerHandle()
		if err != nil {
			return err
		}
		deviceID, err := e.resolveDeviceID(player, cmd)
		if err != nil {
			return err
		}
		if err := player.TransferPlayer(player.DeviceID(), deviceID); err != nil {
			return err
		}
	}

	return nil
}

// resolveDeviceID matches a friendly device name case-insensitively against
// the device directory, listing the available names on failure.
func (e *Executor) resolveDeviceID(player remote.Player, cmd *command.Command) (string, error) {
	devices, err := player.Devices()
	if err != nil {
		return "", err
	}

	want := foldName(cmd.Device)
	available := make([]string, 0, len(devices.Devices))
	for _, device := range devices.Devices {
		if foldName(device.Name) == want {
			return device.ID, nil
		}
		available = append(available, device.Name)
	}
	return "", newCommandError(cmd, "device %q not found; available: %s",
		cmd.Device, strings.Join(available, ", "))
}

func findDevice(list remote.DeviceList, id string) (remote.Device, bool) {
	for _, device := range list.Devices {
		if device.ID == id {
			return device, true
		}
	}
	return remote.Device{}, false
}

func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
