package simulator

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"aria/internal/command"
	"aria/internal/executor"
	"aria/internal/remote"
)

func newSeededSession(t *testing.T) *Session {
	t.Helper()
	session, err := Open(Options{
		DatabasePath: filepath.Join(t.TempDir(), "catalog.db"),
		DeviceNames:  []string{"Office", "Kitchen Speaker"},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	if err := Seed(context.Background(), session.Store()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return session
}

func TestPlayerQueueAdvance(t *testing.T) {
	session := newSeededSession(t)
	player, err := session.OpenPlayer()
	if err != nil {
		t.Fatalf("OpenPlayer: %v", err)
	}

	if err := player.AddToQueue("aria:track:kashmir"); err != nil {
		t.Fatal(err)
	}
	if err := player.SkipNext(); err != nil {
		t.Fatal(err)
	}

	state, err := player.State()
	if err != nil {
		t.Fatal(err)
	}
	if state.Track == nil || state.Track.URI != "aria:track:kashmir" {
		t.Fatalf("track = %+v, want queued track playing", state.Track)
	}
	if !state.Playing {
		t.Errorf("playing = false, want true after advance")
	}
}

func TestPlayerSkipPrevRestoresHistory(t *testing.T) {
	session := newSeededSession(t)
	player, err := session.OpenPlayer()
	if err != nil {
		t.Fatal(err)
	}

	for _, uri := range []string{"aria:track:kashmir", "aria:track:so-what"} {
		if err := player.AddToQueue(uri); err != nil {
			t.Fatal(err)
		}
	}
	if err := player.SkipNext(); err != nil {
		t.Fatal(err)
	}
	if err := player.SkipNext(); err != nil {
		t.Fatal(err)
	}
	if err := player.SkipPrev(); err != nil {
		t.Fatal(err)
	}

	state, err := player.State()
	if err != nil {
		t.Fatal(err)
	}
	if state.Track == nil || state.Track.URI != "aria:track:kashmir" {
		t.Fatalf("track = %+v, want first track after prev", state.Track)
	}

	queue, err := player.Queue()
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 1 || queue[0].URI != "aria:track:so-what" {
		t.Fatalf("queue = %v, want displaced track back in queue", queue)
	}
}

func TestPlayContextLoadsAlbum(t *testing.T) {
	session := newSeededSession(t)
	player, err := session.OpenPlayer()
	if err != nil {
		t.Fatal(err)
	}

	if err := player.PlayContext("aria:album:kind-of-blue"); err != nil {
		t.Fatalf("PlayContext: %v", err)
	}
	state, err := player.State()
	if err != nil {
		t.Fatal(err)
	}
	if state.Track == nil {
		t.Fatal("no track playing after context start")
	}
	queue, err := player.Queue()
	if err != nil {
		t.Fatal(err)
	}
	// Three album tracks: one playing, two queued.
	if len(queue) != 2 {
		t.Fatalf("queue = %d, want 2", len(queue))
	}
}

func TestPlayTrackInContextStartsAtTrack(t *testing.T) {
	session := newSeededSession(t)
	store := session.Store()
	ctx := context.Background()

	uri, err := store.CreatePlaylist(ctx, "Mix")
	if err != nil {
		t.Fatal(err)
	}
	id := remote.BareID(uri, remote.KindPlaylist)
	for _, trackID := range []string{"kashmir", "so-what", "digital-love"} {
		if err := store.AddToPlaylist(ctx, id, trackID); err != nil {
			t.Fatal(err)
		}
	}

	player, err := session.OpenPlayer()
	if err != nil {
		t.Fatal(err)
	}
	if err := player.PlayTrack("aria:track:so-what", uri); err != nil {
		t.Fatalf("PlayTrack: %v", err)
	}

	state, err := player.State()
	if err != nil {
		t.Fatal(err)
	}
	if state.Track.URI != "aria:track:so-what" {
		t.Fatalf("track = %q, want aria:track:so-what", state.Track.URI)
	}
	queue, err := player.Queue()
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 1 || queue[0].URI != "aria:track:digital-love" {
		t.Fatalf("queue = %v, want remainder of playlist", queue)
	}

	if err := player.PlayTrack("aria:track:black-dog", uri); err == nil {
		t.Errorf("playing a track outside its context succeeded")
	}
}

func TestClosedPlayerReportsStaleConnection(t *testing.T) {
	session := newSeededSession(t)
	player, err := session.OpenPlayer()
	if err != nil {
		t.Fatal(err)
	}
	if err := player.Close(); err != nil {
		t.Fatal(err)
	}

	if err := player.Pause(); !errors.Is(err, remote.ErrStaleConnection) {
		t.Errorf("Pause = %v, want ErrStaleConnection", err)
	}
	if _, err := player.State(); !errors.Is(err, remote.ErrStaleConnection) {
		t.Errorf("State = %v, want ErrStaleConnection", err)
	}
}

func TestSetVolumeUpdatesActiveDevice(t *testing.T) {
	session := newSeededSession(t)
	player, err := session.OpenPlayer()
	if err != nil {
		t.Fatal(err)
	}

	if err := player.SetVolume(0.25); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	devices, err := player.Devices()
	if err != nil {
		t.Fatal(err)
	}
	active := devices.Devices[0]
	fraction := 0.25
	want := int(fraction * rawVolumeScale)
	if active.Volume != want {
		t.Errorf("volume = %d, want %d", active.Volume, want)
	}

	if err := player.SetVolume(1.5); err == nil {
		t.Errorf("out-of-range fraction accepted")
	}
}

func TestTransferPlayer(t *testing.T) {
	session := newSeededSession(t)
	player, err := session.OpenPlayer()
	if err != nil {
		t.Fatal(err)
	}
	devices, err := player.Devices()
	if err != nil {
		t.Fatal(err)
	}
	target := devices.Devices[1]

	if err := player.TransferPlayer(player.DeviceID(), target.ID); err != nil {
		t.Fatalf("TransferPlayer: %v", err)
	}
	if player.DeviceID() != target.ID {
		t.Errorf("device = %q, want %q", player.DeviceID(), target.ID)
	}

	if err := player.TransferPlayer(target.ID, "nope"); err == nil {
		t.Errorf("transfer to unknown device succeeded")
	}
}

// TestEndToEnd drives the full pipeline: parse, execute against the
// simulator, observe playback state.
func TestEndToEnd(t *testing.T) {
	session := newSeededSession(t)
	e := executor.New(session, executor.Options{
		CachePath: filepath.Join(t.TempDir(), "namecache.json"),
	})

	run := func(input string) executor.Result {
		t.Helper()
		cmd, err := command.Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		res, err := e.Execute(cmd)
		if err != nil {
			t.Fatalf("Execute(%q): %v", input, err)
		}
		return res
	}

	run(`search "kashmir"`)
	res := run(`play "kashmir"`)
	if res["resolved_id"] != "aria:track:kashmir" {
		t.Fatalf("resolved_id = %v, want aria:track:kashmir", res["resolved_id"])
	}

	res = run("now playing")
	state := res["data"].(remote.PlayerState)
	if state.Track == nil || state.Track.URI != "aria:track:kashmir" {
		t.Fatalf("track = %+v, want kashmir playing", state.Track)
	}

	run("volume 70 mode shuffle")
	res = run("now playing")
	state = res["data"].(remote.PlayerState)
	if !state.Shuffle {
		t.Errorf("shuffle = false, want true")
	}

	res = run(`create playlist "Evening Mix"`)
	playlistID := res["playlist_id"].(string)
	run(`add "aria:track:so-what" to "` + playlistID + `"`)
	res = run(`info "` + playlistID + `"`)
	details := res["data"].(remote.PlaylistDetails)
	if details.Name != "Evening Mix" || len(details.Tracks) != 1 {
		t.Fatalf("details = %+v, want one-track Evening Mix", details)
	}

	// Fuzzy resolution tolerates a typo in a name seen via search.
	res = run(`play "kashmiir"`)
	if res["resolved_id"] != "aria:track:kashmir" {
		t.Fatalf("fuzzy resolved_id = %v, want aria:track:kashmir", res["resolved_id"])
	}
}

// TestEndToEndStaleRetry simulates a dropped player connection between
// commands and checks the executor recovers transparently.
func TestEndToEndStaleRetry(t *testing.T) {
	session := newSeededSession(t)
	e := executor.New(session, executor.Options{
		Eager:     true,
		CachePath: filepath.Join(t.TempDir(), "namecache.json"),
	})

	// Sever the warm connection behind the executor's back; the next
	// command should recover on its single retry.
	session.SeverConnections()

	cmd, err := command.Parse("pause")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Execute(cmd); err != nil {
		t.Fatalf("Execute after severed connection: %v", err)
	}
}
