package executor

import (
	"fmt"

	"aria/internal/command"
)

// Result is the normalized outcome of a successful command: a "status" field
// plus action- or query-specific fields. Errors are never embedded in a
// Result.
type Result map[string]any

// CommandError is the uniform failure carrier for everything that is not a
// parse error. It keeps the originating command and, when wrapping a
// collaborator failure, exposes the cause through Unwrap so the retry path
// can recognize a wrapped stale connection.
type CommandError struct {
	Command *command.Command
	msg     string
	cause   error
}

func (e *CommandError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *CommandError) Unwrap() error { return e.cause }

func newCommandError(cmd *command.Command, format string, args ...any) *CommandError {
	return &CommandError{Command: cmd, msg: fmt.Sprintf(format, args...)}
}

func wrapCommandError(cmd *command.Command, err error) *CommandError {
	return &CommandError{Command: cmd, msg: describe(cmd), cause: err}
}

func describe(cmd *command.Command) string {
	if cmd == nil {
		return "command failed"
	}
	return cmd.Describe() + " failed"
}
