// Package executor dispatches parsed commands to the remote collaborators.
//
// An Executor owns one lazily opened player connection, reused catalog and
// artist handles, and the name cache. Execution of a command runs at most
// twice: a failure classified as a stale player connection discards the
// cached handle and triggers exactly one transparent retry; every other
// failure surfaces immediately. After the primary effect of an action, any
// attached state modifiers (volume, relative volume, mode, device transfer)
// are applied in a fixed order; there is no rollback if a modifier fails
// after the action succeeded.
//
// Operations that return named resources feed the name cache
// opportunistically so later commands can use plain names, and the cache is
// persisted after every successful command (a no-op when unchanged).
package executor
