package executor

import (
	"aria/internal/command"
	"aria/internal/logging"
	"aria/internal/remote"
)

const (
	defaultSearchLimit  = 10
	defaultLibraryLimit = 50
	defaultInfoLimit    = 25
	defaultListLimit    = 10
	defaultRecommendN   = 20
)

// libraryFilters maps a requested library section to the filter list the
// collaborator understands.
var libraryFilters = map[string][]string{
	"playlists": {"Playlists"},
	"artists":   {"Artists"},
	"albums":    {"Albums"},
}

// searchKind maps a plural search section to the identifier kind used for
// caching its items.
var searchKind = map[string]string{
	"tracks":    remote.KindTrack,
	"albums":    remote.KindAlbum,
	"playlists": remote.KindPlaylist,
}

var queryHandlers = map[command.Query]func(*Executor, *command.Command) (Result, error){
	command.QuerySearch:     (*Executor).querySearch,
	command.QueryNowPlaying: (*Executor).queryNowPlaying,
	command.QueryGetQueue:   (*Executor).queryGetQueue,
	command.QueryGetDevices: (*Executor).queryGetDevices,
	command.QueryLibrary:    (*Executor).queryLibrary,
	command.QueryHistory:    (*Executor).queryHistory,
	command.QueryInfo:       (*Executor).queryInfo,
	command.QueryRecommend:  (*Executor).queryRecommend,
}

func (e *Executor) dispatchQuery(cmd *command.Command) (Result, error) {
	handler, ok := queryHandlers[cmd.Query]
	if !ok {
		return nil, newCommandError(cmd, "unknown query %q", string(cmd.Query))
	}
	return handler(e, cmd)
}

// querySearch issues one search per term. The artists type takes the artist
// directory path with its own response shape; every other type goes through
// the catalog with a type-specific section extraction. All named results are
// cached opportunistically, including artists embedded in track hits.
func (e *Executor) querySearch(cmd *command.Command) (Result, error) {
	searchType := cmd.Type
	if searchType == "" {
		searchType = "tracks"
	}
	limit := intOr(cmd.Limit, defaultSearchLimit)
	offset := intOr(cmd.Offset, 0)

	items := make([]any, 0)
	for _, term := range cmd.Terms {
		if searchType == "artists" {
			artists, err := e.artistsHandle()
			if err != nil {
				return nil, err
			}
			hits, err := artists.SearchArtists(term, limit, offset)
			if err != nil {
				return nil, err
			}
			for _, hit := range hits {
				e.cache.Add(remote.KindArtist, hit.Name, hit.URI)
				items = append(items, hit)
			}
			continue
		}

		catalog, err := e.catalogHandle()
		if err != nil {
			return nil, err
		}
		results, err := catalog.SearchSongs(term, limit, offset)
		if err != nil {
			return nil, err
		}
		items = append(items, e.cacheSearchSection(results, searchType)...)
	}

	return Result{
		"status": "ok",
		"query":  "search",
		"terms":  cmd.Terms,
		"type":   searchType,
		"data":   items,
	}, nil
}

// cacheSearchSection extracts the requested section from catalog search
// results and feeds the cache with every named item it contains.
func (e *Executor) cacheSearchSection(results remote.SearchResults, searchType string) []any {
	kind := searchKind[searchType]
	items := make([]any, 0)

	switch searchType {
	case "albums":
		for _, album := range results.Albums {
			e.cache.Add(kind, album.Name, album.URI)
			items = append(items, album)
		}
	case "playlists":
		for _, playlist := range results.Playlists {
			e.cache.Add(kind, playlist.Name, playlist.URI)
			items = append(items, playlist)
		}
	default: // tracks
		for _, track := range results.Tracks {
			e.cache.Add(remote.KindTrack, track.Name, track.URI)
			for _, artist := range track.Artists {
				e.cache.Add(remote.KindArtist, artist.Name, artist.URI)
			}
			items = append(items, track)
		}
	}
	return items
}

func (e *Executor) queryNowPlaying(cmd *command.Command) (Result, error) {
	player, err := e.playerHandle()
	if err != nil {
		return nil, err
	}
	state, err := player.State()
	if err != nil {
		return nil, err
	}
	if state.Track != nil {
		enriched := e.enrichTracks([]remote.Track{*state.Track})
		state.Track = &enriched[0]
	}
	return Result{"status": "ok", "query": "now_playing", "data": state}, nil
}

func (e *Executor) queryGetQueue(cmd *command.Command) (Result, error) {
	player, err := e.playerHandle()
	if err != nil {
		return nil, err
	}
	tracks, err := player.Queue()
	if err != nil {
		return nil, err
	}
	limit := intOr(cmd.Limit, defaultListLimit)
	e.enrichTracks(head(tracks, limit))
	return Result{"status": "ok", "query": "get_queue", "data": tracks, "limit": limit}, nil
}

func (e *Executor) queryHistory(cmd *command.Command) (Result, error) {
	player, err := e.playerHandle()
	if err != nil {
		return nil, err
	}
	tracks, err := player.History()
	if err != nil {
		return nil, err
	}
	limit := intOr(cmd.Limit, defaultListLimit)
	e.enrichTracks(head(tracks, limit))
	return Result{"status": "ok", "query": "history", "data": tracks, "limit": limit}, nil
}

func (e *Executor) queryGetDevices(cmd *command.Command) (Result, error) {
	player, err := e.playerHandle()
	if err != nil {
		return nil, err
	}
	devices, err := player.Devices()
	if err != nil {
		return nil, err
	}
	return Result{"status": "ok", "query": "get_devices", "data": devices}, nil
}

func (e *Executor) queryLibrary(cmd *command.Command) (Result, error) {
	filters := libraryFilters[cmd.Type]
	limit := intOr(cmd.Limit, defaultLibraryLimit)
	offset := intOr(cmd.Offset, 0)

	playlist := e.session.Playlist("")
	items, err := playlist.Library(limit, offset, filters)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		switch item.Kind {
		case remote.KindPlaylist, remote.KindAlbum, remote.KindArtist:
			e.cache.Add(item.Kind, item.Name, item.URI)
		}
	}

	res := Result{"status": "ok", "query": "library", "data": items}
	if cmd.Type != "" {
		res["type"] = cmd.Type
	}
	return res, nil
}

// infoResolutionOrder is the fixed kind order tried when an info target is a
// display name rather than an identifier.
var infoResolutionOrder = []string{
	remote.KindArtist,
	remote.KindTrack,
	remote.KindAlbum,
	remote.KindPlaylist,
}

func (e *Executor) queryInfo(cmd *command.Command) (Result, error) {
	target := cmd.Target

	if !remote.IsIdentifier(target) {
		resolved := ""
		for _, kind := range infoResolutionOrder {
			if uri, ok := e.cache.Resolve(kind, target); ok {
				resolved = uri
				break
			}
		}
		if resolved == "" {
			return nil, newCommandError(cmd, "%q not found; use search first to find it", target)
		}
		target = resolved
	}

	kind := remote.IdentifierKind(target)
	id := remote.BareID(target, kind)
	limit := intOr(cmd.Limit, defaultInfoLimit)
	offset := intOr(cmd.Offset, 0)

	var (
		data any
		name string
	)
	switch kind {
	case remote.KindTrack:
		catalog, err := e.catalogHandle()
		if err != nil {
			return nil, err
		}
		details, err := catalog.TrackInfo(id)
		if err != nil {
			return nil, err
		}
		data, name = details, details.Name
	case remote.KindArtist:
		artists, err := e.artistsHandle()
		if err != nil {
			return nil, err
		}
		details, err := artists.ArtistInfo(id)
		if err != nil {
			return nil, err
		}
		data, name = details, details.Name
	case remote.KindAlbum:
		details, err := e.session.Album(id).AlbumInfo(limit, offset)
		if err != nil {
			return nil, err
		}
		data, name = details, details.Name
	case remote.KindPlaylist:
		details, err := e.session.PublicPlaylist(id).PlaylistInfo(limit, offset)
		if err != nil {
			return nil, err
		}
		data, name = details, details.Name
	default:
		return nil, newCommandError(cmd, "cannot get info for identifier kind %q", kind)
	}

	e.cache.Add(kind, name, target)
	return Result{"status": "ok", "query": "info", "target": target, "data": data}, nil
}

func (e *Executor) queryRecommend(cmd *command.Command) (Result, error) {
	target := cmd.Target
	if !remote.IsIdentifier(target) || remote.IdentifierKind(target) != remote.KindPlaylist {
		return nil, newCommandError(cmd,
			"recommend requires a playlist identifier (e.g. %s), got %q",
			remote.MakeIdentifier(remote.KindPlaylist, "abc"), target)
	}
	n := intOr(cmd.N, defaultRecommendN)

	playlist := e.session.Playlist(remote.BareID(target, remote.KindPlaylist))
	tracks, err := playlist.Recommended(n)
	if err != nil {
		return nil, err
	}
	for _, track := range tracks {
		e.cache.Add(remote.KindTrack, track.Name, track.OriginalID)
	}
	return Result{"status": "ok", "query": "recommend", "target": target, "n": n, "data": tracks}, nil
}

// enrichTracks fills missing track titles in place: reverse cache first,
// then a direct catalog lookup whose outcome is cached. Lookup failures skip
// the track rather than failing the query. Queue and history queries pass
// only their first limit tracks; the rest are forwarded unenriched.
func (e *Executor) enrichTracks(tracks []remote.Track) []remote.Track {
	for i := range tracks {
		track := &tracks[i]
		if track.URI == "" {
			continue
		}
		if track.Metadata != nil && track.Metadata.Title != "" {
			continue
		}

		if name, ok := e.cache.NameForID(track.URI); ok {
			if track.Metadata == nil {
				track.Metadata = &remote.Metadata{}
			}
			track.Metadata.Title = name
			continue
		}

		catalog, err := e.catalogHandle()
		if err != nil {
			continue
		}
		details, err := catalog.TrackInfo(remote.BareID(track.URI, remote.KindTrack))
		if err != nil || details.Name == "" {
			if err != nil {
				e.logger.Debug("track enrichment lookup failed",
					logging.String("uri", track.URI),
					logging.Error(err))
			}
			continue
		}

		metadata := &remote.Metadata{Title: details.Name, AlbumTitle: details.AlbumName}
		if len(details.Artists) > 0 {
			metadata.ArtistURI = details.Artists[0].URI
			metadata.ArtistName = details.Artists[0].Name
			e.cache.Add(remote.KindArtist, details.Artists[0].Name, details.Artists[0].URI)
		}
		track.Metadata = metadata
		e.cache.Add(remote.KindTrack, details.Name, track.URI)
	}
	return tracks
}

// head returns the first limit tracks without copying.
func head(tracks []remote.Track, limit int) []remote.Track {
	if limit < 0 || limit >= len(tracks) {
		return tracks
	}
	return tracks[:limit]
}
