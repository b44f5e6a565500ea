package simulator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"aria/internal/remote"
)

// ErrNotFound reports a catalog lookup that matched nothing.
var ErrNotFound = errors.New("not found in catalog")

// Store is the SQLite-backed music catalog.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore connects to the catalog database at path, creating it and
// applying migrations as needed. An empty path opens an in-memory catalog.
func OpenStore(path string) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure catalog dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SearchTracks matches track names case-insensitively by substring.
func (s *Store) SearchTracks(ctx context.Context, term string, limit, offset int) ([]remote.TrackHit, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT t.id, t.name, a.id, a.name
        FROM tracks t
        JOIN albums al ON al.id = t.album_id
        JOIN artists a ON a.id = al.artist_id
        WHERE t.name LIKE ? COLLATE NOCASE
        ORDER BY t.name
        LIMIT ? OFFSET ?`,
		pattern(term), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search tracks: %w", err)
	}
	defer rows.Close()

	hits := make([]remote.TrackHit, 0)
	for rows.Next() {
		var trackID, trackName, artistID, artistName string
		if err := rows.Scan(&trackID, &trackName, &artistID, &artistName); err != nil {
			return nil, fmt.Errorf("scan track hit: %w", err)
		}
		hits = append(hits, remote.TrackHit{
			URI:  remote.MakeIdentifier(remote.KindTrack, trackID),
			Name: trackName,
			Artists: []remote.Ref{{
				URI:  remote.MakeIdentifier(remote.KindArtist, artistID),
				Name: artistName,
			}},
		})
	}
	return hits, rows.Err()
}

// SearchRefs matches names in the given table (albums, playlists or artists)
// and returns identifier/name pairs.
func (s *Store) SearchRefs(ctx context.Context, kind, term string, limit, offset int) ([]remote.Ref, error) {
	table, ok := kindTables[kind]
	if !ok {
		return nil, fmt.Errorf("search refs: unsupported kind %q", kind)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name FROM "+table+" WHERE name LIKE ? COLLATE NOCASE ORDER BY name LIMIT ? OFFSET ?",
		pattern(term), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", table, err)
	}
	defer rows.Close()

	refs := make([]remote.Ref, 0)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		refs = append(refs, remote.Ref{URI: remote.MakeIdentifier(kind, id), Name: name})
	}
	return refs, rows.Err()
}

var kindTables = map[string]string{
	remote.KindAlbum:    "albums",
	remote.KindPlaylist: "playlists",
	remote.KindArtist:   "artists",
}

// TrackDetails loads one track with its album and artist attribution.
func (s *Store) TrackDetails(ctx context.Context, id string) (remote.TrackDetails, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT t.name, t.duration_ms, al.name, a.id, a.name
        FROM tracks t
        JOIN albums al ON al.id = t.album_id
        JOIN artists a ON a.id = al.artist_id
        WHERE t.id = ?`, id)

	var details remote.TrackDetails
	var artistID, artistName string
	err := row.Scan(&details.Name, &details.DurationMS, &details.AlbumName, &artistID, &artistName)
	if errors.Is(err, sql.ErrNoRows) {
		return remote.TrackDetails{}, fmt.Errorf("track %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return remote.TrackDetails{}, fmt.Errorf("load track %s: %w", id, err)
	}
	details.Artists = []remote.Ref{{
		URI:  remote.MakeIdentifier(remote.KindArtist, artistID),
		Name: artistName,
	}}
	return details, nil
}

// ArtistDetails loads one artist.
func (s *Store) ArtistDetails(ctx context.Context, id string) (remote.ArtistDetails, error) {
	row := s.db.QueryRowContext(ctx, "SELECT name, genres FROM artists WHERE id = ?", id)

	var name, genres string
	err := row.Scan(&name, &genres)
	if errors.Is(err, sql.ErrNoRows) {
		return remote.ArtistDetails{}, fmt.Errorf("artist %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return remote.ArtistDetails{}, fmt.Errorf("load artist %s: %w", id, err)
	}

	details := remote.ArtistDetails{Name: name}
	if genres != "" {
		details.Genres = strings.Split(genres, ",")
	}
	return details, nil
}

// AlbumDetails loads one album with a page of its tracks.
func (s *Store) AlbumDetails(ctx context.Context, id string, limit, offset int) (remote.AlbumDetails, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT al.name, a.id, a.name
        FROM albums al
        JOIN artists a ON a.id = al.artist_id
        WHERE al.id = ?`, id)

	var details remote.AlbumDetails
	var artistID, artistName string
	err := row.Scan(&details.Name, &artistID, &artistName)
	if errors.Is(err, sql.ErrNoRows) {
		return remote.AlbumDetails{}, fmt.Errorf("album %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return remote.AlbumDetails{}, fmt.Errorf("load album %s: %w", id, err)
	}
	details.Artist = remote.Ref{URI: remote.MakeIdentifier(remote.KindArtist, artistID), Name: artistName}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name FROM tracks WHERE album_id = ? ORDER BY name LIMIT ? OFFSET ?",
		id, limit, offset)
	if err != nil {
		return remote.AlbumDetails{}, fmt.Errorf("load album tracks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var trackID, trackName string
		if err := rows.Scan(&trackID, &trackName); err != nil {
			return remote.AlbumDetails{}, fmt.Errorf("scan album track: %w", err)
		}
		details.Tracks = append(details.Tracks, remote.Ref{
			URI:  remote.MakeIdentifier(remote.KindTrack, trackID),
			Name: trackName,
		})
	}
	return details, rows.Err()
}

// PlaylistDetails loads one playlist with a page of its tracks in playlist
// order.
func (s *Store) PlaylistDetails(ctx context.Context, id string, limit, offset int) (remote.PlaylistDetails, error) {
	row := s.db.QueryRowContext(ctx, "SELECT name, owner FROM playlists WHERE id = ?", id)

	var details remote.PlaylistDetails
	err := row.Scan(&details.Name, &details.Owner)
	if errors.Is(err, sql.ErrNoRows) {
		return remote.PlaylistDetails{}, fmt.Errorf("playlist %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return remote.PlaylistDetails{}, fmt.Errorf("load playlist %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT t.id, t.name
        FROM playlist_tracks pt
        JOIN tracks t ON t.id = pt.track_id
        WHERE pt.playlist_id = ?
        ORDER BY pt.position
        LIMIT ? OFFSET ?`, id, limit, offset)
	if err != nil {
		return remote.PlaylistDetails{}, fmt.Errorf("load playlist tracks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var trackID, trackName string
		if err := rows.Scan(&trackID, &trackName); err != nil {
			return remote.PlaylistDetails{}, fmt.Errorf("scan playlist track: %w", err)
		}
		details.Tracks = append(details.Tracks, remote.Ref{
			URI:  remote.MakeIdentifier(remote.KindTrack, trackID),
			Name: trackName,
		})
	}
	return details, rows.Err()
}

// Like marks a track as liked; liking twice is a no-op.
func (s *Store) Like(ctx context.Context, trackID string) error {
	if err := s.requireRow(ctx, "tracks", trackID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO likes (track_id) VALUES (?)", trackID)
	if err != nil {
		return fmt.Errorf("like track %s: %w", trackID, err)
	}
	return nil
}

// Unlike removes a like; unliking an unliked track is a no-op.
func (s *Store) Unlike(ctx context.Context, trackID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM likes WHERE track_id = ?", trackID)
	if err != nil {
		return fmt.Errorf("unlike track %s: %w", trackID, err)
	}
	return nil
}

// IsLiked reports whether a track is currently liked.
func (s *Store) IsLiked(ctx context.Context, trackID string) (bool, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM likes WHERE track_id = ?", trackID)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return count > 0, nil
}

// Follow marks an artist as followed.
func (s *Store) Follow(ctx context.Context, artistID string) error {
	if err := s.requireRow(ctx, "artists", artistID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO follows (artist_id) VALUES (?)", artistID)
	if err != nil {
		return fmt.Errorf("follow artist %s: %w", artistID, err)
	}
	return nil
}

// Unfollow removes a follow.
func (s *Store) Unfollow(ctx context.Context, artistID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM follows WHERE artist_id = ?", artistID)
	if err != nil {
		return fmt.Errorf("unfollow artist %s: %w", artistID, err)
	}
	return nil
}

// CreatePlaylist inserts an empty playlist and returns its identifier.
func (s *Store) CreatePlaylist(ctx context.Context, name string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, "INSERT INTO playlists (id, name) VALUES (?, ?)", id, name)
	if err != nil {
		return "", fmt.Errorf("create playlist %q: %w", name, err)
	}
	return remote.MakeIdentifier(remote.KindPlaylist, id), nil
}

// DeletePlaylist removes a playlist and its memberships.
func (s *Store) DeletePlaylist(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete playlist %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete playlist %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("playlist %s: %w", id, ErrNotFound)
	}
	return nil
}

// AddToPlaylist appends a track to a playlist. Duplicate membership is
// rejected by the primary key.
func (s *Store) AddToPlaylist(ctx context.Context, playlistID, trackID string) error {
	if err := s.requireRow(ctx, "playlists", playlistID); err != nil {
		return err
	}
	if err := s.requireRow(ctx, "tracks", trackID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO playlist_tracks (playlist_id, track_id, position)
        SELECT ?, ?, COALESCE(MAX(position), 0) + 1
        FROM playlist_tracks WHERE playlist_id = ?`,
		playlistID, trackID, playlistID)
	if err != nil {
		return fmt.Errorf("add track %s to playlist %s: %w", trackID, playlistID, err)
	}
	return nil
}

// RemoveFromPlaylist drops a playlist membership.
func (s *Store) RemoveFromPlaylist(ctx context.Context, playlistID, trackID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?",
		playlistID, trackID)
	if err != nil {
		return fmt.Errorf("remove track %s from playlist %s: %w", trackID, playlistID, err)
	}
	return nil
}

// SaveToLibrary records a saved item; saving twice refreshes the entry.
func (s *Store) SaveToLibrary(ctx context.Context, uri, kind, name string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO library (uri, kind, name, added_at) VALUES (?, ?, ?, ?)",
		uri, kind, name, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save %s to library: %w", uri, err)
	}
	return nil
}

// RemoveFromLibrary drops a saved item.
func (s *Store) RemoveFromLibrary(ctx context.Context, uri string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM library WHERE uri = ?", uri)
	if err != nil {
		return fmt.Errorf("remove %s from library: %w", uri, err)
	}
	return nil
}

// libraryFilterKinds maps the section labels accepted by Library to stored
// item kinds.
var libraryFilterKinds = map[string]string{
	"Playlists": remote.KindPlaylist,
	"Artists":   remote.KindArtist,
	"Albums":    remote.KindAlbum,
}

// Library lists saved items, newest first, optionally restricted to the
// given section labels.
func (s *Store) Library(ctx context.Context, limit, offset int, filters []string) ([]remote.LibraryItem, error) {
	query := "SELECT uri, name, kind FROM library"
	args := make([]any, 0, len(filters)+2)
	if len(filters) > 0 {
		placeholders := make([]string, 0, len(filters))
		for _, filter := range filters {
			kind, ok := libraryFilterKinds[filter]
			if !ok {
				return nil, fmt.Errorf("library: unsupported filter %q", filter)
			}
			placeholders = append(placeholders, "?")
			args = append(args, kind)
		}
		query += " WHERE kind IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY added_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	defer rows.Close()

	items := make([]remote.LibraryItem, 0)
	for rows.Next() {
		var item remote.LibraryItem
		if err := rows.Scan(&item.URI, &item.Name, &item.Kind); err != nil {
			return nil, fmt.Errorf("scan library item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// RecommendedTracks suggests up to n catalog tracks that are not already on
// the playlist, preferring tracks by artists the playlist already features.
// Deterministic ordering keeps repeat calls stable.
func (s *Store) RecommendedTracks(ctx context.Context, playlistID string, n int) ([]remote.RecommendedTrack, error) {
	if err := s.requireRow(ctx, "playlists", playlistID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT t.id, t.name,
               EXISTS (
                   SELECT 1
                   FROM playlist_tracks pt
                   JOIN tracks mt ON mt.id = pt.track_id
                   JOIN albums mal ON mal.id = mt.album_id
                   JOIN albums tal ON tal.id = t.album_id
                   WHERE pt.playlist_id = ? AND mal.artist_id = tal.artist_id
               ) AS neighbor
        FROM tracks t
        WHERE t.id NOT IN (SELECT track_id FROM playlist_tracks WHERE playlist_id = ?)
        ORDER BY neighbor DESC, t.name
        LIMIT ?`, playlistID, playlistID, n)
	if err != nil {
		return nil, fmt.Errorf("recommend for playlist %s: %w", playlistID, err)
	}
	defer rows.Close()

	tracks := make([]remote.RecommendedTrack, 0)
	for rows.Next() {
		var id, name string
		var neighbor int
		if err := rows.Scan(&id, &name, &neighbor); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		tracks = append(tracks, remote.RecommendedTrack{
			OriginalID: remote.MakeIdentifier(remote.KindTrack, id),
			Name:       name,
		})
	}
	return tracks, rows.Err()
}

// InsertArtist adds an artist row for seeding.
func (s *Store) InsertArtist(ctx context.Context, id, name string, genres []string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO artists (id, name, genres) VALUES (?, ?, ?)",
		id, name, strings.Join(genres, ","))
	if err != nil {
		return fmt.Errorf("insert artist %s: %w", id, err)
	}
	return nil
}

// InsertAlbum adds an album row for seeding.
func (s *Store) InsertAlbum(ctx context.Context, id, name, artistID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO albums (id, name, artist_id) VALUES (?, ?, ?)",
		id, name, artistID)
	if err != nil {
		return fmt.Errorf("insert album %s: %w", id, err)
	}
	return nil
}

// InsertTrack adds a track row for seeding.
func (s *Store) InsertTrack(ctx context.Context, id, name, albumID string, durationMS int) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO tracks (id, name, album_id, duration_ms) VALUES (?, ?, ?, ?)",
		id, name, albumID, durationMS)
	if err != nil {
		return fmt.Errorf("insert track %s: %w", id, err)
	}
	return nil
}

func (s *Store) requireRow(ctx context.Context, table, id string) error {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+table+" WHERE id = ?", id)
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("check %s row: %w", table, err)
	}
	if count == 0 {
		return fmt.Errorf("%s %s: %w", strings.TrimSuffix(table, "s"), id, ErrNotFound)
	}
	return nil
}

func pattern(term string) string {
	return "%" + strings.TrimSpace(term) + "%"
}
