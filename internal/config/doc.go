// Package config loads and validates aria's TOML configuration.
//
// Configuration covers the name cache (persistence path, entry ceiling), the
// player (eager connection warm-up, volume ceiling), the local simulator
// backend (catalog database path, seeded device names), and logging. Load
// applies defaults for anything the file omits and expands leading "~" in
// paths.
package config
