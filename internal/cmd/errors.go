package cmd

import (
	"strings"

	"github.com/brackethq/bracket/internal/notify"
)

// Error is a user facing error. Commands return an Error when the message
// should be printed as is, rather than as a chain of wrapped errors.
type Error struct {
	// Message is a full sentence describing what failed.
	Message string

	// OriginalError is the error that caused the failure. It is described
	// below the Message.
	OriginalError error
}

func (e Error) Error() string {
	var lines []string
	if e.OriginalError != nil {
		lines = notify.Describe(e.OriginalError)
	}

	switch {
	case len(lines) == 0:
		return e.Message
	case e.Message == "":
		return "Internal error:\n" + strings.Join(lines, "\n")
	default:
		return strings.TrimSuffix(e.Message, ".") + ":\n  " + strings.Join(lines, "\n  ")
	}
}

func (e Error) Unwrap() error {
	return e.OriginalError
}

//lint:ignore ST1005, user facing error
var errNotLoggedIn = Error{Message: `Missing access key, run "bracket login" or set BRACKET_ACCESS_KEY in your environment`}
