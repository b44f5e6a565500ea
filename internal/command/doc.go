// Package command turns one line of control text into a structured Command.
//
// A command line is either an action (something that changes playback or the
// library) or a query (something that reads state or the catalog), never
// both. Quoted segments are atomic literals that keep their internal
// whitespace; everything else splits on whitespace.
//
// Trailing state modifiers (volume, mode, on/device) compose with any action;
// limit and offset compose with any query. Attaching a modifier to the wrong
// command class is a parse error, as is any unrecognized leading word.
package command
