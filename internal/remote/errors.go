package remote

import "errors"

// ErrStaleConnection marks a live player connection that has gone bad. The
// executor discards its cached player handle and retries the command exactly
// once when it sees this error, directly or as a wrapped cause.
var ErrStaleConnection = errors.New("stale player connection")
