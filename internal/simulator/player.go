package simulator

import (
	"context"
	"fmt"
	"sync"

	"aria/internal/remote"
)

const rawVolumeScale = 65535

// player is the in-memory playback half of the simulator. All playback
// state lives here; only catalog lookups touch the store. A closed player
// reports every operation as a stale connection, which is exactly how a
// dropped gateway socket presents to callers.
type player struct {
	store *Store

	mu      sync.Mutex
	closed  bool
	devices remote.DeviceList
	state   remote.PlayerState
	queue   []remote.Track
	history []remote.Track
}

func newPlayer(store *Store, devices []remote.Device) *player {
	list := remote.DeviceList{Devices: devices}
	if len(devices) > 0 {
		list.ActiveID = devices[0].ID
	}
	return &player{
		store:   store,
		devices: list,
		state:   remote.PlayerState{DeviceID: list.ActiveID},
	}
}

func (p *player) guard() error {
	if p.closed {
		return remote.ErrStaleConnection
	}
	return nil
}

func (p *player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}
	p.state.Playing = false
	return nil
}

func (p *player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}
	p.state.Playing = true
	return nil
}

func (p *player) SeekTo(positionMS int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}
	if positionMS < 0 {
		return fmt.Errorf("seek position must be non-negative, got %d", positionMS)
	}
	p.state.PositionMS = positionMS
	return nil
}

func (p *player) AddToQueue(uri string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}
	p.queue = append(p.queue, remote.Track{URI: uri})
	return nil
}

func (p *player) SkipNext() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}
	if p.state.Track != nil {
		p.history = append([]remote.Track{*p.state.Track}, p.history...)
	}
	if len(p.queue) == 0 {
		p.state.Track = nil
		p.state.Playing = false
		p.state.PositionMS = 0
		return nil
	}
	next := p.queue[0]
	p.queue = p.queue[1:]
	p.state.Track = &next
	p.state.Playing = true
	p.state.PositionMS = 0
	return nil
}

func (p *player) SkipPrev() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}
	if len(p.history) == 0 {
		// Nothing behind us; restart the current track.
		p.state.PositionMS = 0
		return nil
	}
	if p.state.Track != nil {
		p.queue = append([]remote.Track{*p.state.Track}, p.queue...)
	}
	prev := p.history[0]
	p.history = p.history[1:]
	p.state.Track = &prev
	p.state.Playing = true
	p.state.PositionMS = 0
	return nil
}

// PlayContext starts a container: the album's or playlist's tracks replace
// the queue and the first one begins playing.
func (p *player) PlayContext(uri string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}

	tracks, err := p.contextTracks(uri)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("context %s has no tracks", uri)
	}

	p.queue = p.queue[:0]
	for _, ref := range tracks[1:] {
		p.queue = append(p.queue, remote.Track{URI: ref.URI, Metadata: &remote.Metadata{Title: ref.Name}})
	}
	first := remote.Track{URI: tracks[0].URI, Metadata: &remote.Metadata{Title: tracks[0].Name}}
	p.state.Track = &first
	p.state.Playing = true
	p.state.PositionMS = 0
	return nil
}

// PlayTrack starts one track inside a context; the rest of the context
// follows it in the queue.
func (p *player) PlayTrack(uri, contextURI string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}

	tracks, err := p.contextTracks(contextURI)
	if err != nil {
		return err
	}
	start := -1
	for i, ref := range tracks {
		if ref.URI == uri {
			start = i
			break
		}
	}
	if start < 0 {
		return fmt.Errorf("track %s is not in context %s", uri, contextURI)
	}

	p.queue = p.queue[:0]
	for _, ref := range tracks[start+1:] {
		p.queue = append(p.queue, remote.Track{URI: ref.URI, Metadata: &remote.Metadata{Title: ref.Name}})
	}
	current := remote.Track{URI: tracks[start].URI, Metadata: &remote.Metadata{Title: tracks[start].Name}}
	p.state.Track = &current
	p.state.Playing = true
	p.state.PositionMS = 0
	return nil
}

func (p *player) contextTracks(uri string) ([]remote.Ref, error) {
	ctx := context.Background()
	kind := remote.IdentifierKind(uri)
	id := remote.BareID(uri, kind)

	switch kind {
	case remote.KindAlbum:
		details, err := p.store.AlbumDetails(ctx, id, 500, 0)
		if err != nil {
			return nil, err
		}
		return details.Tracks, nil
	case remote.KindPlaylist:
		details, err := p.store.PlaylistDetails(ctx, id, 500, 0)
		if err != nil {
			return nil, err
		}
		return details.Tracks, nil
	default:
		return nil, fmt.Errorf("cannot play %s as a context", uri)
	}
}

func (p *player) SetVolume(fraction float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}
	if fraction < 0 || fraction > 1 {
		return fmt.Errorf("volume fraction must be 0.0-1.0, got %v", fraction)
	}
	for i := range p.devices.Devices {
		if p.devices.Devices[i].ID == p.devices.ActiveID {
			p.devices.Devices[i].Volume = int(fraction * rawVolumeScale)
			return nil
		}
	}
	return fmt.Errorf("no active device to set volume on")
}

func (p *player) SetShuffle(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}
	p.state.Shuffle = on
	return nil
}

func (p *player) RepeatTrack(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}
	p.state.Repeat = on
	return nil
}

func (p *player) TransferPlayer(fromID, toID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}
	for _, device := range p.devices.Devices {
		if device.ID == toID {
			p.devices.ActiveID = toID
			p.state.DeviceID = toID
			return nil
		}
	}
	return fmt.Errorf("unknown device %s", toID)
}

func (p *player) State() (remote.PlayerState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return remote.PlayerState{}, err
	}
	state := p.state
	if p.state.Track != nil {
		track := *p.state.Track
		state.Track = &track
	}
	return state, nil
}

func (p *player) Devices() (remote.DeviceList, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return remote.DeviceList{}, err
	}
	list := p.devices
	list.Devices = append([]remote.Device(nil), p.devices.Devices...)
	return list, nil
}

func (p *player) DeviceID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.devices.ActiveID
}

func (p *player) Queue() ([]remote.Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return nil, err
	}
	return append([]remote.Track(nil), p.queue...), nil
}

func (p *player) History() ([]remote.Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return nil, err
	}
	return append([]remote.Track(nil), p.history...), nil
}

func (p *player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
