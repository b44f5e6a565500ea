// Package simulator provides a self-contained playback backend: a SQLite
// music catalog plus an in-memory player. It exists so the command surface
// can be exercised end to end without a real streaming service.
package simulator
