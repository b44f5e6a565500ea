package executor

import (
	"math"

	"aria/internal/command"
	"aria/internal/remote"
)

// simpleTargetActions maps bare-target actions to the collaborator call that
// serves them: extract the bare id and invoke.
var simpleTargetActions = map[command.Action]struct {
	kind   string
	invoke func(*Executor, string) error
}{
	command.ActionLike: {remote.KindTrack, func(e *Executor, id string) error {
		catalog, err := e.catalogHandle()
		if err != nil {
			return err
		}
		return catalog.Like(id)
	}},
	command.ActionUnlike: {remote.KindTrack, func(e *Executor, id string) error {
		catalog, err := e.catalogHandle()
		if err != nil {
			return err
		}
		return catalog.Unlike(id)
	}},
	command.ActionFollow: {remote.KindArtist, func(e *Executor, id string) error {
		artists, err := e.artistsHandle()
		if err != nil {
			return err
		}
		return artists.Follow(id)
	}},
	command.ActionUnfollow: {remote.KindArtist, func(e *Executor, id string) error {
		artists, err := e.artistsHandle()
		if err != nil {
			return err
		}
		return artists.Unfollow(id)
	}},
}

// playlistActions maps library-style actions to the playlist-handle method
// that serves them.
var playlistActions = map[command.Action]func(remote.Playlist) error{
	command.ActionSave:           remote.Playlist.AddToLibrary,
	command.ActionUnsave:         remote.Playlist.RemoveFromLibrary,
	command.ActionPlaylistDelete: remote.Playlist.Delete,
}

// actionHandlers maps the remaining actions to their named handlers.
var actionHandlers = map[command.Action]func(*Executor, *command.Command) (Result, error){
	command.ActionPlay:           (*Executor).actionPlay,
	command.ActionSkip:           (*Executor).actionSkip,
	command.ActionSeek:           (*Executor).actionSeek,
	command.ActionQueue:          (*Executor).actionQueue,
	command.ActionPlaylistAdd:    (*Executor).actionPlaylistAdd,
	command.ActionPlaylistRemove: (*Executor).actionPlaylistRemove,
	command.ActionPlaylistCreate: (*Executor).actionPlaylistCreate,
}

func (e *Executor) dispatchAction(cmd *command.Command) (Result, error) {
	res, err := e.primaryAction(cmd)
	if err != nil {
		return nil, err
	}

	if err := e.applyModifiers(cmd); err != nil {
		return nil, err
	}

	// The reported volume reflects the ceiling-capped value actually sent,
	// not the raw request.
	if cmd.Volume != nil {
		if _, ok := res["volume"]; ok {
			res["volume"] = math.Min(float64(*cmd.Volume), e.maxVolume*100)
		}
	}
	return res, nil
}

func (e *Executor) primaryAction(cmd *command.Command) (Result, error) {
	if spec, ok := simpleTargetActions[cmd.Action]; ok {
		if err := spec.invoke(e, remote.BareID(cmd.Target, spec.kind)); err != nil {
			return nil, err
		}
		return Result{"status": "ok", "action": string(cmd.Action), "target": cmd.Target}, nil
	}

	if method, ok := playlistActions[cmd.Action]; ok {
		playlist := e.session.Playlist(remote.BareID(cmd.Target, remote.KindPlaylist))
		if err := method(playlist); err != nil {
			return nil, err
		}
		return Result{"status": "ok", "action": string(cmd.Action), "target": cmd.Target}, nil
	}

	switch cmd.Action {
	case command.ActionPause, command.ActionResume:
		player, err := e.playerHandle()
		if err != nil {
			return nil, err
		}
		if cmd.Action == command.ActionPause {
			err = player.Pause()
		} else {
			err = player.Resume()
		}
		if err != nil {
			return nil, err
		}
		return Result{"status": "ok", "action": string(cmd.Action)}, nil

	case command.ActionSet:
		// Side effects come solely from modifier application; the result
		// just echoes what was requested.
		res := Result{"status": "ok", "action": "set"}
		if cmd.Volume != nil {
			res["volume"] = *cmd.Volume
		}
		if cmd.VolumeRel != nil {
			res["volume_rel"] = *cmd.VolumeRel
		}
		if cmd.Mode != "" {
			res["mode"] = cmd.Mode
		}
		if cmd.Device != "" {
			res["device"] = cmd.Device
		}
		return res, nil
	}

	handler, ok := actionHandlers[cmd.Action]
	if !ok {
		return nil, newCommandError(cmd, "unknown action %q", string(cmd.Action))
	}
	return handler(e, cmd)
}

// actionPlay resolves the target, then picks the playback shape: contextual
// playback for containers, in-context start when a context identifier was
// supplied, otherwise queue-and-advance.
func (e *Executor) actionPlay(cmd *command.Command) (Result, error) {
	target := cmd.Target
	kind := cmd.Kind
	if kind == "" {
		kind = remote.KindTrack
	}

	var uri string
	if remote.IsIdentifier(target) {
		uri = target
		kind = remote.IdentifierKind(target)
	} else {
		resolved, err := e.resolveURI(kind, target, cmd)
		if err != nil {
			return nil, err
		}
		uri = resolved
	}

	player, err := e.playerHandle()
	if err != nil {
		return nil, err
	}

	res := Result{"status": "ok", "action": "play", "kind": kind, "target": target}
	switch {
	case kind == remote.KindAlbum || kind == remote.KindPlaylist:
		if err := player.PlayContext(uri); err != nil {
			return nil, err
		}
	case cmd.Context != "":
		if !remote.IsIdentifier(cmd.Context) {
			return nil, newCommandError(cmd,
				`play with "in" context requires a playlist identifier, e.g. play "song" in %s`,
				remote.MakeIdentifier(remote.KindPlaylist, "abc"))
		}
		if err := player.PlayTrack(uri, cmd.Context); err != nil {
			return nil, err
		}
		res["context"] = cmd.Context
	default:
		// Queue plus advance: play this one track now.
		if err := player.AddToQueue(uri); err != nil {
			return nil, err
		}
		if err := player.SkipNext(); err != nil {
			return nil, err
		}
	}

	if uri != target {
		res["resolved_id"] = uri
	}
	return res, nil
}

func (e *Executor) actionSkip(cmd *command.Command) (Result, error) {
	n := intOr(cmd.N, 1)

	player, err := e.playerHandle()
	if err != nil {
		return nil, err
	}

	step := player.SkipNext
	if n < 0 {
		step = player.SkipPrev
	}
	for i := 0; i < abs(n); i++ {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return Result{"status": "ok", "action": "skip", "n": n}, nil
}

func (e *Executor) actionSeek(cmd *command.Command) (Result, error) {
	player, err := e.playerHandle()
	if err != nil {
		return nil, err
	}
	if err := player.SeekTo(cmd.PositionMS); err != nil {
		return nil, err
	}
	return Result{"status": "ok", "action": "seek", "position_ms": cmd.PositionMS}, nil
}

func (e *Executor) actionQueue(cmd *command.Command) (Result, error) {
	target := cmd.Target
	uri := target
	if !remote.IsIdentifier(target) {
		resolved, err := e.resolveURI(remote.KindTrack, target, cmd)
		if err != nil {
			return nil, err
		}
		uri = resolved
	}

	player, err := e.playerHandle()
	if err != nil {
		return nil, err
	}
	if err := player.AddToQueue(uri); err != nil {
		return nil, err
	}
	return Result{"status": "ok", "action": "queue", "target": target}, nil
}

func (e *Executor) actionPlaylistAdd(cmd *command.Command) (Result, error) {
	catalog, err := e.catalogHandle()
	if err != nil {
		return nil, err
	}
	playlistID := remote.BareID(cmd.Playlist, remote.KindPlaylist)
	trackID := remote.BareID(cmd.Track, remote.KindTrack)
	if err := catalog.AddToPlaylist(playlistID, trackID); err != nil {
		return nil, err
	}
	return Result{"status": "ok", "action": "playlist_add", "track": cmd.Track, "playlist": cmd.Playlist}, nil
}

func (e *Executor) actionPlaylistRemove(cmd *command.Command) (Result, error) {
	catalog, err := e.catalogHandle()
	if err != nil {
		return nil, err
	}
	playlistID := remote.BareID(cmd.Playlist, remote.KindPlaylist)
	trackID := remote.BareID(cmd.Track, remote.KindTrack)
	if err := catalog.RemoveFromPlaylist(playlistID, trackID); err != nil {
		return nil, err
	}
	return Result{"status": "ok", "action": "playlist_remove", "track": cmd.Track, "playlist": cmd.Playlist}, nil
}

func (e *Executor) actionPlaylistCreate(cmd *command.Command) (Result, error) {
	playlist := e.session.Playlist("")
	id, err := playlist.Create(cmd.Name)
	if err != nil {
		return nil, err
	}
	e.cache.Add(remote.KindPlaylist, cmd.Name, id)
	return Result{"status": "ok", "action": "playlist_create", "name": cmd.Name, "playlist_id": id}, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
