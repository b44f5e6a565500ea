// Package namecache maps (kind, name) pairs to resource identifiers so
// commands can refer to tracks, artists, albums, and playlists by the names a
// person actually types.
//
// Names are normalized (case-folded, trimmed) before use. A lookup that
// misses the exact key falls back to the best fuzzy match among names of the
// same kind, using a difflib-style similarity ratio with a fixed cutoff. The
// cache holds at most a configured number of entries, evicting the least
// recently touched first, and keeps a reverse identifier-to-name index in
// lockstep with the forward map.
//
// # Storage
//
// When constructed with a path the cache persists as a single JSON file with
// two maps: "cache" (kind-joined key to identifier) and "reverse"
// (identifier to last-known display name). Saves are atomic (temp file plus
// rename) and skipped entirely when nothing changed. A corrupt or
// unreadable file never fails startup; the cache simply starts empty.
package namecache
