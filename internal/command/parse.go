package command

import (
	"fmt"
	"strconv"
	"strings"
)

var searchTypes = map[string]bool{
	"tracks":    true,
	"artists":   true,
	"albums":    true,
	"playlists": true,
}

// Parse turns one line of text into a Command. It returns a *ParseError on
// malformed or ungrammatical input, including empty input.
func Parse(input string) (*Command, error) {
	toks, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, &ParseError{Input: input, Msg: "empty command"}
	}

	p := &parser{input: input, toks: toks}
	cmd := &Command{}

	head := toks[0]
	if head.quoted {
		return nil, p.errorf("unrecognized command %q", head.text)
	}

	switch strings.ToLower(head.text) {
	case "pause":
		p.advance()
		cmd.Action = ActionPause
	case "resume":
		p.advance()
		cmd.Action = ActionResume
	case "like", "unlike", "follow", "unfollow", "save", "unsave":
		cmd.Action = Action(strings.ToLower(head.text))
		p.advance()
		if cmd.Target, err = p.value("target"); err != nil {
			return nil, err
		}
	case "play":
		p.advance()
		cmd.Action = ActionPlay
		if cmd.Target, err = p.value("target"); err != nil {
			return nil, err
		}
		if p.peekKeyword("in") {
			p.advance()
			if cmd.Context, err = p.value("context"); err != nil {
				return nil, err
			}
		}
	case "skip":
		p.advance()
		cmd.Action = ActionSkip
		n := 1
		if tok, ok := p.peek(); ok && !tok.quoted {
			if parsed, convErr := strconv.Atoi(tok.text); convErr == nil {
				n = parsed
				p.advance()
			}
		}
		cmd.N = &n
	case "seek":
		p.advance()
		cmd.Action = ActionSeek
		if cmd.PositionMS, err = p.intValue("position"); err != nil {
			return nil, err
		}
	case "queue":
		p.advance()
		cmd.Action = ActionQueue
		if cmd.Target, err = p.value("target"); err != nil {
			return nil, err
		}
	case "add":
		p.advance()
		cmd.Action = ActionPlaylistAdd
		if cmd.Track, err = p.value("track"); err != nil {
			return nil, err
		}
		if err = p.keyword("to"); err != nil {
			return nil, err
		}
		if cmd.Playlist, err = p.value("playlist"); err != nil {
			return nil, err
		}
	case "remove":
		p.advance()
		cmd.Action = ActionPlaylistRemove
		if cmd.Track, err = p.value("track"); err != nil {
			return nil, err
		}
		if err = p.keyword("from"); err != nil {
			return nil, err
		}
		if cmd.Playlist, err = p.value("playlist"); err != nil {
			return nil, err
		}
	case "create":
		p.advance()
		cmd.Action = ActionPlaylistCreate
		if err = p.keyword("playlist"); err != nil {
			return nil, err
		}
		if cmd.Name, err = p.value("name"); err != nil {
			return nil, err
		}
	case "delete":
		p.advance()
		cmd.Action = ActionPlaylistDelete
		if err = p.keyword("playlist"); err != nil {
			return nil, err
		}
		if cmd.Target, err = p.value("target"); err != nil {
			return nil, err
		}
	case "search":
		p.advance()
		cmd.Query = QuerySearch
		term, err := p.value("search term")
		if err != nil {
			return nil, err
		}
		cmd.Terms = []string{term}
		if tok, ok := p.peek(); ok && !tok.quoted && searchTypes[strings.ToLower(tok.text)] {
			cmd.Type = strings.ToLower(tok.text)
			p.advance()
		}
	case "now":
		p.advance()
		if err = p.keyword("playing"); err != nil {
			return nil, err
		}
		cmd.Query = QueryNowPlaying
	case "get":
		p.advance()
		word, err := p.value("queue or devices")
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(word) {
		case "queue":
			cmd.Query = QueryGetQueue
		case "devices":
			cmd.Query = QueryGetDevices
		default:
			return nil, p.errorf("expected queue or devices after get, got %q", word)
		}
	case "library":
		p.advance()
		cmd.Query = QueryLibrary
		if tok, ok := p.peek(); ok && !tok.quoted && searchTypes[strings.ToLower(tok.text)] {
			cmd.Type = strings.ToLower(tok.text)
			p.advance()
		}
	case "history":
		p.advance()
		cmd.Query = QueryHistory
	case "info":
		p.advance()
		cmd.Query = QueryInfo
		if cmd.Target, err = p.value("target"); err != nil {
			return nil, err
		}
	case "recommend":
		p.advance()
		cmd.Query = QueryRecommend
		if tok, ok := p.peek(); ok && !tok.quoted {
			if n, convErr := strconv.Atoi(tok.text); convErr == nil {
				cmd.N = &n
				p.advance()
			}
		}
		if err = p.keyword("for"); err != nil {
			return nil, err
		}
		if cmd.Target, err = p.value("target"); err != nil {
			return nil, err
		}
	case "volume", "mode", "on", "device":
		// Standalone state modifiers form a bare set action; the modifier
		// loop below consumes them.
		cmd.Action = ActionSet
	default:
		return nil, p.errorf("unrecognized command %q", head.text)
	}

	if err := p.modifiers(cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}

// modifiers consumes trailing modifier tokens, enforcing the composition
// rule: state modifiers attach to actions only, limit/offset to queries only.
func (p *parser) modifiers(cmd *Command) error {
	for {
		tok, ok := p.peek()
		if !ok {
			return nil
		}
		if tok.quoted {
			return p.errorf("unexpected token %q", tok.text)
		}
		switch strings.ToLower(tok.text) {
		case "volume":
			if cmd.IsQuery() {
				return p.errorf("volume cannot modify a query")
			}
			p.advance()
			raw, err := p.value("volume")
			if err != nil {
				return err
			}
			n, convErr := strconv.Atoi(raw)
			if convErr != nil {
				return p.errorf("volume requires a number, got %q", raw)
			}
			if strings.HasPrefix(raw, "+") || strings.HasPrefix(raw, "-") {
				cmd.VolumeRel = &n
			} else {
				cmd.Volume = &n
			}
		case "mode":
			if cmd.IsQuery() {
				return p.errorf("mode cannot modify a query")
			}
			p.advance()
			raw, err := p.value("mode")
			if err != nil {
				return err
			}
			mode := strings.ToLower(raw)
			switch mode {
			case "shuffle", "repeat", "normal":
				cmd.Mode = mode
			default:
				return p.errorf("mode must be shuffle, repeat, or normal, got %q", raw)
			}
		case "on", "device":
			if cmd.IsQuery() {
				return p.errorf("device cannot modify a query")
			}
			p.advance()
			name, err := p.value("device name")
			if err != nil {
				return err
			}
			cmd.Device = name
		case "limit":
			if cmd.IsAction() {
				return p.errorf("limit cannot modify an action")
			}
			p.advance()
			n, err := p.intValue("limit")
			if err != nil {
				return err
			}
			cmd.Limit = &n
		case "offset":
			if cmd.IsAction() {
				return p.errorf("offset cannot modify an action")
			}
			p.advance()
			n, err := p.intValue("offset")
			if err != nil {
				return err
			}
			cmd.Offset = &n
		default:
			return p.errorf("unexpected token %q", tok.text)
		}
	}
}

type token struct {
	text   string
	quoted bool
}

// tokenize splits input into whitespace-separated tokens, treating quoted
// segments as atomic literals that preserve internal whitespace.
func tokenize(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		switch c := input[i]; {
		case c == ' ' || c == '\t':
			i++
		case c == '"':
			end := strings.IndexByte(input[i+1:], '"')
			if end < 0 {
				return nil, &ParseError{Input: input, Msg: "unterminated quote"}
			}
			toks = append(toks, token{text: input[i+1 : i+1+end], quoted: true})
			i += end + 2
		default:
			j := i
			for j < len(input) && input[j] != ' ' && input[j] != '\t' && input[j] != '"' {
				j++
			}
			toks = append(toks, token{text: input[i:j]})
			i = j
		}
	}
	return toks, nil
}

type parser struct {
	input string
	toks  []token
	pos   int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) advance() {
	p.pos++
}

// peekKeyword reports whether the next token is the given unquoted keyword.
func (p *parser) peekKeyword(word string) bool {
	tok, ok := p.peek()
	return ok && !tok.quoted && strings.EqualFold(tok.text, word)
}

// keyword consumes the given unquoted keyword or fails.
func (p *parser) keyword(word string) error {
	tok, ok := p.peek()
	if !ok {
		return p.errorf("expected %q", word)
	}
	if tok.quoted || !strings.EqualFold(tok.text, word) {
		return p.errorf("expected %q, got %q", word, tok.text)
	}
	p.advance()
	return nil
}

// value consumes the next token of any shape and returns its text.
func (p *parser) value(what string) (string, error) {
	tok, ok := p.peek()
	if !ok {
		return "", p.errorf("missing %s", what)
	}
	p.advance()
	return tok.text, nil
}

func (p *parser) intValue(what string) (int, error) {
	raw, err := p.value(what)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return 0, p.errorf("%s requires a number, got %q", what, raw)
	}
	return n, nil
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Input: p.input, Msg: fmt.Sprintf(format, args...)}
}
