package executor

import (
	"errors"
	"log/slog"

	"aria/internal/command"
	"aria/internal/logging"
	"aria/internal/namecache"
	"aria/internal/remote"
)

// Options configures executor construction.
type Options struct {
	// Eager opens the player connection at construction instead of on first
	// use. A failed warm-up is swallowed; the first real command retries.
	Eager bool

	// CachePath is the name cache persistence location. Empty disables
	// persistence (the cache still works in memory).
	CachePath string

	// CacheMaxEntries caps the name cache; <= 0 selects the default ceiling.
	CacheMaxEntries int

	// MaxVolume is the ceiling (0.0-1.0) applied to every absolute and
	// relative volume request. Values outside that range are clamped; zero
	// means no ceiling was configured and is treated as 1.0.
	MaxVolume float64

	Logger *slog.Logger
}

// Executor drives the remote collaborators from parsed commands.
type Executor struct {
	session remote.Session
	logger  *slog.Logger

	player  remote.Player
	catalog remote.Catalog
	artists remote.ArtistDirectory

	cache     *namecache.Cache
	maxVolume float64
}

// New builds an Executor over the given session.
func New(session remote.Session, opts Options) *Executor {
	logger := logging.NewComponentLogger(opts.Logger, "executor")

	maxVolume := opts.MaxVolume
	if maxVolume <= 0 {
		maxVolume = 1.0
	} else if maxVolume > 1 {
		maxVolume = 1.0
	}

	e := &Executor{
		session:   session,
		logger:    logger,
		cache:     namecache.New(opts.CachePath, opts.CacheMaxEntries, opts.Logger),
		maxVolume: maxVolume,
	}

	if opts.Eager {
		if _, err := e.playerHandle(); err != nil {
			logger.Debug("eager player warm-up failed; deferring to first command",
				logging.Error(err))
		}
	}

	return e
}

// Cache exposes the name cache for inspection tooling.
func (e *Executor) Cache() *namecache.Cache { return e.cache }

// Close releases the player connection if one was opened.
func (e *Executor) Close() error {
	if e.player == nil {
		return nil
	}
	err := e.player.Close()
	e.player = nil
	return err
}

// Execute runs one command. A stale-connection failure, raised directly or
// as the cause of a wrapped command error, discards the cached player handle
// and retries exactly once; any other failure, or a second failure of any
// kind, surfaces immediately. The name cache is persisted after success.
func (e *Executor) Execute(cmd *command.Command) (Result, error) {
	res, err := e.executeOnce(cmd)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, remote.ErrStaleConnection) {
		return nil, err
	}

	e.logger.Debug("stale player connection; rebuilding and retrying",
		logging.String("command", cmd.Describe()))
	e.resetPlayer()

	res, err = e.executeOnce(cmd)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Executor) executeOnce(cmd *command.Command) (Result, error) {
	var (
		res Result
		err error
	)
	switch {
	case cmd.IsAction():
		res, err = e.dispatchAction(cmd)
	case cmd.IsQuery():
		res, err = e.dispatchQuery(cmd)
	default:
		return nil, newCommandError(cmd, "invalid command: no action or query")
	}
	if err != nil {
		return nil, e.asCommandError(cmd, err)
	}
	if saveErr := e.cache.Save(); saveErr != nil {
		return nil, &CommandError{Command: cmd, msg: "persist name cache", cause: saveErr}
	}
	return res, nil
}

// asCommandError leaves taxonomy errors alone and wraps everything else so
// collaborator failures always reach the caller as a CommandError carrying
// the command.
func (e *Executor) asCommandError(cmd *command.Command, err error) error {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return err
	}
	return wrapCommandError(cmd, err)
}

// playerHandle returns the cached player connection, opening one on demand.
func (e *Executor) playerHandle() (remote.Player, error) {
	if e.player == nil {
		player, err := e.session.OpenPlayer()
		if err != nil {
			return nil, err
		}
		e.player = player
	}
	return e.player, nil
}

// resetPlayer tears down a stale player so the next access opens a fresh
// connection. Teardown failures are logged, never propagated.
func (e *Executor) resetPlayer() {
	if e.player == nil {
		return
	}
	if err := e.player.Close(); err != nil {
		e.logger.Warn("closing stale player connection failed",
			logging.Error(err))
	}
	e.player = nil
}

func (e *Executor) catalogHandle() (remote.Catalog, error) {
	if e.catalog == nil {
		catalog, err := e.session.Catalog()
		if err != nil {
			return nil, err
		}
		e.catalog = catalog
	}
	return e.catalog, nil
}

func (e *Executor) artistsHandle() (remote.ArtistDirectory, error) {
	if e.artists == nil {
		artists, err := e.session.Artists()
		if err != nil {
			return nil, err
		}
		e.artists = artists
	}
	return e.artists, nil
}

// resolveURI maps a display name to an identifier via the cache, failing
// with search-first advice when the name is unknown.
func (e *Executor) resolveURI(kind, name string, cmd *command.Command) (string, error) {
	uri, ok := e.cache.Resolve(kind, name)
	if !ok {
		return "", newCommandError(cmd, "%q not found; use search first to find it", name)
	}
	return uri, nil
}

func intOr(value *int, fallback int) int {
	if value != nil {
		return *value
	}
	return fallback
}
