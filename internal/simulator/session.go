package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"aria/internal/logging"
	"aria/internal/remote"
)

// Options configures a simulator session.
type Options struct {
	// DatabasePath locates the catalog database; empty means in-memory.
	DatabasePath string

	// DeviceNames become the simulated output devices, first one active.
	DeviceNames []string

	Logger *slog.Logger
}

// Session is a remote.Session backed by the local catalog and an in-memory
// player.
type Session struct {
	store  *Store
	logger *slog.Logger

	devices []remote.Device

	mu      sync.Mutex
	players []*player
}

// Open builds a session over the catalog at opts.DatabasePath.
func Open(opts Options) (*Session, error) {
	store, err := OpenStore(opts.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	names := opts.DeviceNames
	if len(names) == 0 {
		names = []string{"Simulator"}
	}
	devices := make([]remote.Device, 0, len(names))
	for _, name := range names {
		devices = append(devices, remote.Device{
			ID:     uuid.NewString(),
			Name:   name,
			Volume: rawVolumeScale / 2,
		})
	}

	return &Session{
		store:   store,
		logger:  logging.NewComponentLogger(opts.Logger, "simulator"),
		devices: devices,
	}, nil
}

// Store exposes the catalog for seeding and maintenance tooling.
func (s *Session) Store() *Store { return s.store }

// Close releases the catalog database.
func (s *Session) Close() error { return s.store.Close() }

// OpenPlayer hands out a fresh player connection.
func (s *Session) OpenPlayer() (remote.Player, error) {
	devices := append([]remote.Device(nil), s.devices...)
	p := newPlayer(s.store, devices)

	s.mu.Lock()
	s.players = append(s.players, p)
	s.mu.Unlock()

	s.logger.Debug("player connection opened", logging.Int("devices", len(devices)))
	return p, nil
}

// SeverConnections closes every player this session has handed out. Holders
// of those connections see stale-connection failures until they reopen,
// mirroring what a dropped gateway does to real clients.
func (s *Session) SeverConnections() {
	s.mu.Lock()
	players := s.players
	s.players = nil
	s.mu.Unlock()

	for _, p := range players {
		_ = p.Close()
	}
}

func (s *Session) Catalog() (remote.Catalog, error) {
	return &catalog{store: s.store}, nil
}

func (s *Session) Artists() (remote.ArtistDirectory, error) {
	return &artistDirectory{store: s.store}, nil
}

func (s *Session) Playlist(id string) remote.Playlist {
	return &playlist{store: s.store, id: id}
}

func (s *Session) Album(id string) remote.AlbumReader {
	return &albumReader{store: s.store, id: id}
}

func (s *Session) PublicPlaylist(id string) remote.PlaylistReader {
	return &playlistReader{store: s.store, id: id}
}

type catalog struct {
	store *Store
}

func (c *catalog) SearchSongs(term string, limit, offset int) (remote.SearchResults, error) {
	ctx := context.Background()

	tracks, err := c.store.SearchTracks(ctx, term, limit, offset)
	if err != nil {
		return remote.SearchResults{}, err
	}
	albums, err := c.store.SearchRefs(ctx, remote.KindAlbum, term, limit, offset)
	if err != nil {
		return remote.SearchResults{}, err
	}
	playlists, err := c.store.SearchRefs(ctx, remote.KindPlaylist, term, limit, offset)
	if err != nil {
		return remote.SearchResults{}, err
	}
	return remote.SearchResults{Tracks: tracks, Albums: albums, Playlists: playlists}, nil
}

func (c *catalog) TrackInfo(id string) (remote.TrackDetails, error) {
	return c.store.TrackDetails(context.Background(), id)
}

func (c *catalog) Like(trackID string) error {
	return c.store.Like(context.Background(), trackID)
}

func (c *catalog) Unlike(trackID string) error {
	return c.store.Unlike(context.Background(), trackID)
}

func (c *catalog) AddToPlaylist(playlistID, trackID string) error {
	return c.store.AddToPlaylist(context.Background(), playlistID, trackID)
}

func (c *catalog) RemoveFromPlaylist(playlistID, trackID string) error {
	return c.store.RemoveFromPlaylist(context.Background(), playlistID, trackID)
}

type artistDirectory struct {
	store *Store
}

func (a *artistDirectory) SearchArtists(term string, limit, offset int) ([]remote.Ref, error) {
	return a.store.SearchRefs(context.Background(), remote.KindArtist, term, limit, offset)
}

func (a *artistDirectory) ArtistInfo(id string) (remote.ArtistDetails, error) {
	return a.store.ArtistDetails(context.Background(), id)
}

func (a *artistDirectory) Follow(id string) error {
	return a.store.Follow(context.Background(), id)
}

func (a *artistDirectory) Unfollow(id string) error {
	return a.store.Unfollow(context.Background(), id)
}

// playlist is a handle bound to one playlist id; library-wide calls ignore
// the id.
type playlist struct {
	store *Store
	id    string
}

func (p *playlist) Create(name string) (string, error) {
	return p.store.CreatePlaylist(context.Background(), name)
}

func (p *playlist) Delete() error {
	return p.store.DeletePlaylist(context.Background(), p.id)
}

func (p *playlist) AddToLibrary() error {
	ctx := context.Background()
	details, err := p.store.PlaylistDetails(ctx, p.id, 1, 0)
	if err != nil {
		return err
	}
	uri := remote.MakeIdentifier(remote.KindPlaylist, p.id)
	return p.store.SaveToLibrary(ctx, uri, remote.KindPlaylist, details.Name)
}

func (p *playlist) RemoveFromLibrary() error {
	uri := remote.MakeIdentifier(remote.KindPlaylist, p.id)
	return p.store.RemoveFromLibrary(context.Background(), uri)
}

func (p *playlist) Library(limit, offset int, filters []string) ([]remote.LibraryItem, error) {
	return p.store.Library(context.Background(), limit, offset, filters)
}

func (p *playlist) Recommended(n int) ([]remote.RecommendedTrack, error) {
	return p.store.RecommendedTracks(context.Background(), p.id, n)
}

type albumReader struct {
	store *Store
	id    string
}

func (a *albumReader) AlbumInfo(limit, offset int) (remote.AlbumDetails, error) {
	return a.store.AlbumDetails(context.Background(), a.id, limit, offset)
}

type playlistReader struct {
	store *Store
	id    string
}

func (p *playlistReader) PlaylistInfo(limit, offset int) (remote.PlaylistDetails, error) {
	return p.store.PlaylistDetails(context.Background(), p.id, limit, offset)
}
