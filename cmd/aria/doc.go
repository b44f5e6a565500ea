// Command aria is the playback command-line client. It parses the command
// language, executes against the configured backend, and renders results as
// tables or JSON.
package main
