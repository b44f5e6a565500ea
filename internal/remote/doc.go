// Package remote defines the collaborator contracts the execution engine
// drives: the stateful player connection, the catalog and artist directories,
// and per-call playlist, album, and public-playlist handles. A Session hands
// out all of them.
//
// The package also owns the identifier convention (scheme:kind:id) and the
// ErrStaleConnection sentinel that marks a live player connection as gone bad
// and eligible for one transparent rebuild.
package remote
