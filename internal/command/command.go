package command

import "fmt"

// Action enumerates every recognized action verb.
type Action string

const (
	ActionNone           Action = ""
	ActionPause          Action = "pause"
	ActionResume         Action = "resume"
	ActionLike           Action = "like"
	ActionUnlike         Action = "unlike"
	ActionFollow         Action = "follow"
	ActionUnfollow       Action = "unfollow"
	ActionSave           Action = "save"
	ActionUnsave         Action = "unsave"
	ActionPlay           Action = "play"
	ActionSkip           Action = "skip"
	ActionSeek           Action = "seek"
	ActionQueue          Action = "queue"
	ActionPlaylistAdd    Action = "playlist_add"
	ActionPlaylistRemove Action = "playlist_remove"
	ActionPlaylistCreate Action = "playlist_create"
	ActionPlaylistDelete Action = "playlist_delete"
	ActionSet            Action = "set"
)

// Query enumerates every recognized query form.
type Query string

const (
	QueryNone       Query = ""
	QuerySearch     Query = "search"
	QueryNowPlaying Query = "now_playing"
	QueryGetQueue   Query = "get_queue"
	QueryGetDevices Query = "get_devices"
	QueryLibrary    Query = "library"
	QueryHistory    Query = "history"
	QueryInfo       Query = "info"
	QueryRecommend  Query = "recommend"
)

// Command is a parsed command line. Exactly one of Action or Query is set.
// Optional numeric fields are pointers so presence is distinguishable from a
// zero value.
type Command struct {
	Action Action
	Query  Query

	// Action fields.
	Target     string // identifier or display name
	Context    string // playback container for play
	Kind       string // requested resolution kind for play (empty = track)
	Track      string // playlist_add / playlist_remove
	Playlist   string // playlist_add / playlist_remove
	Name       string // playlist_create
	PositionMS int    // seek
	N          *int   // skip count (signed) or recommend count

	// Query fields.
	Terms []string // search
	Type  string   // search / library section, lowercased

	// Query modifiers.
	Limit  *int
	Offset *int

	// State modifiers, attachable to any action.
	Volume    *int   // absolute, 0-100
	VolumeRel *int   // signed percentage-point delta
	Mode      string // shuffle, repeat, or normal
	Device    string // device display name
}

// IsAction reports whether the command carries an action verb.
func (c *Command) IsAction() bool { return c.Action != ActionNone }

// IsQuery reports whether the command is a query.
func (c *Command) IsQuery() bool { return c.Query != QueryNone }

// Describe returns the action or query name for error messages and logs.
func (c *Command) Describe() string {
	switch {
	case c.IsAction():
		return string(c.Action)
	case c.IsQuery():
		return string(c.Query)
	default:
		return "<empty>"
	}
}

// ParseError reports malformed or ungrammatical input. It is never retried.
type ParseError struct {
	Input string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Input, e.Msg)
}
