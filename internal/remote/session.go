package remote

// Player is the stateful playback connection. Opening one establishes a live
// link that must be released with Close; any method may fail with
// ErrStaleConnection once the link has gone bad.
type Player interface {
	Pause() error
	Resume() error
	SeekTo(positionMS int) error
	AddToQueue(uri string) error
	SkipNext() error
	SkipPrev() error
	PlayContext(uri string) error
	PlayTrack(uri, contextURI string) error
	SetVolume(fraction float64) error
	SetShuffle(on bool) error
	RepeatTrack(on bool) error
	TransferPlayer(fromID, toID string) error

	State() (PlayerState, error)
	Devices() (DeviceList, error)
	DeviceID() string
	Queue() ([]Track, error)
	History() ([]Track, error)

	Close() error
}

// Catalog searches and describes songs. Implementations are stateless and
// safe to construct once and reuse.
type Catalog interface {
	SearchSongs(term string, limit, offset int) (SearchResults, error)
	TrackInfo(id string) (TrackDetails, error)
	Like(trackID string) error
	Unlike(trackID string) error
	AddToPlaylist(playlistID, trackID string) error
	RemoveFromPlaylist(playlistID, trackID string) error
}

// ArtistDirectory searches and describes artists.
type ArtistDirectory interface {
	SearchArtists(term string, limit, offset int) ([]Ref, error)
	ArtistInfo(id string) (ArtistDetails, error)
	Follow(id string) error
	Unfollow(id string) error
}

// Playlist is a private playlist handle bound to one playlist id. Handles are
// cheap and constructed fresh per call; Create is the only method valid on a
// handle built with an empty id.
type Playlist interface {
	Create(name string) (string, error)
	Delete() error
	AddToLibrary() error
	RemoveFromLibrary() error
	Library(limit, offset int, filters []string) ([]LibraryItem, error)
	Recommended(n int) ([]RecommendedTrack, error)
}

// AlbumReader reads public album information.
type AlbumReader interface {
	AlbumInfo(limit, offset int) (AlbumDetails, error)
}

// PlaylistReader reads public playlist information.
type PlaylistReader interface {
	PlaylistInfo(limit, offset int) (PlaylistDetails, error)
}

// Session hands out collaborator handles. OpenPlayer opens a live connection
// each time it is called; Catalog and Artists may be cached by the caller;
// Playlist, Album, and PublicPlaylist build cheap per-call handles.
type Session interface {
	OpenPlayer() (Player, error)
	Catalog() (Catalog, error)
	Artists() (ArtistDirectory, error)
	Playlist(id string) Playlist
	Album(id string) AlbumReader
	PublicPlaylist(id string) PlaylistReader
}
