package remote

// Ref is a named reference to a remote resource.
type Ref struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// Metadata carries display information for a track.
type Metadata struct {
	Title      string `json:"title"`
	AlbumTitle string `json:"album_title,omitempty"`
	ArtistURI  string `json:"artist_uri,omitempty"`
	ArtistName string `json:"artist_name,omitempty"`
}

// Track is a queue, history, or now-playing entry. Metadata may be nil when
// the player only knows the URI; the executor enriches such tracks from the
// cache or the catalog.
type Track struct {
	URI      string    `json:"uri"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Device is one entry of the player's device directory. Volume is the raw
// device value in the 0-65535 range.
type Device struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Volume int    `json:"volume"`
}

// DeviceList is the player's device directory plus the active device.
type DeviceList struct {
	ActiveID string   `json:"active_id"`
	Devices  []Device `json:"devices"`
}

// PlayerState is the readable playback state.
type PlayerState struct {
	Track      *Track `json:"track,omitempty"`
	Playing    bool   `json:"playing"`
	Shuffle    bool   `json:"shuffle"`
	Repeat     bool   `json:"repeat"`
	PositionMS int    `json:"position_ms"`
	DeviceID   string `json:"device_id,omitempty"`
}

// TrackHit is one track from a catalog search, with its embedded artists.
type TrackHit struct {
	URI     string `json:"uri"`
	Name    string `json:"name"`
	Artists []Ref  `json:"artists,omitempty"`
}

// SearchResults groups catalog search hits by section. The executor extracts
// the section matching the requested type.
type SearchResults struct {
	Tracks    []TrackHit `json:"tracks,omitempty"`
	Albums    []Ref      `json:"albums,omitempty"`
	Playlists []Ref      `json:"playlists,omitempty"`
}

// LibraryItem is one saved entry of the caller's library. Kind is the type
// discriminator: track, artist, album, or playlist.
type LibraryItem struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// RecommendedTrack is one recommendation for a playlist. OriginalID is the
// identifier of the underlying track.
type RecommendedTrack struct {
	OriginalID string `json:"original_id"`
	Name       string `json:"name"`
}

// TrackDetails is the catalog's track info payload.
type TrackDetails struct {
	Name       string `json:"name"`
	AlbumName  string `json:"album_name,omitempty"`
	Artists    []Ref  `json:"artists,omitempty"`
	DurationMS int    `json:"duration_ms,omitempty"`
}

// ArtistDetails is the artist directory's info payload.
type ArtistDetails struct {
	Name   string   `json:"name"`
	Genres []string `json:"genres,omitempty"`
}

// AlbumDetails is the album reader's info payload.
type AlbumDetails struct {
	Name   string `json:"name"`
	Artist Ref    `json:"artist"`
	Tracks []Ref  `json:"tracks,omitempty"`
}

// PlaylistDetails is the public playlist reader's info payload.
type PlaylistDetails struct {
	Name   string `json:"name"`
	Owner  string `json:"owner,omitempty"`
	Tracks []Ref  `json:"tracks,omitempty"`
}
