// Package notify surfaces the outcome of user actions: confirmations when an
// action succeeds and errors when the authority rejects it.
package notify

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/muesli/termenv"

	"github.com/brackethq/bracket/api"
	"github.com/brackethq/bracket/internal/logging"
	"github.com/brackethq/bracket/internal/validate"
)

// Notifier is the shared error-surfacing collaborator used by both flows.
// Implementations must be safe for concurrent use.
type Notifier interface {
	Success(title string)
	Error(title string, err error)
}

// Console writes notifications to a terminal stream. Colors are used when the
// stream supports them.
type Console struct {
	mu     sync.Mutex
	output *termenv.Output
}

func NewConsole(w io.Writer) *Console {
	return &Console{output: termenv.NewOutput(w)}
}

func (c *Console) Success(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	check := c.output.String("✔").Foreground(c.output.Color("2"))
	fmt.Fprintf(c.output, "%s %s\n", check, title)
}

func (c *Console) Error(title string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	logging.Debugf("%s: %v", title, err)

	cross := c.output.String("✘").Foreground(c.output.Color("1"))
	fmt.Fprintf(c.output, "%s %s\n", cross, title)
	for _, line := range Describe(err) {
		fmt.Fprintf(c.output, "  %s\n", line)
	}
}

// Describe turns an error into lines suitable for a user. Validation problems
// are listed per field, authority errors use the authority's message.
func Describe(err error) []string {
	if err == nil {
		return nil
	}

	var fieldErrs validate.Error
	if errors.As(err, &fieldErrs) {
		lines := make([]string, 0, len(fieldErrs))
		for _, name := range fieldErrs.Fields() {
			problems := strings.Join(fieldErrs[name], ", ")
			if name == "" {
				lines = append(lines, problems)
				continue
			}
			lines = append(lines, name+": "+problems)
		}
		return lines
	}

	var apiError api.Error
	if errors.As(err, &apiError) {
		if len(apiError.FieldErrors) == 0 {
			return []string{apiError.Error()}
		}
		fields := append([]api.FieldError(nil), apiError.FieldErrors...)
		sort.Slice(fields, func(i, j int) bool {
			return fields[i].FieldName < fields[j].FieldName
		})
		lines := make([]string, 0, len(fields))
		for _, f := range fields {
			lines = append(lines, f.FieldName+": "+strings.Join(f.Errors, ", "))
		}
		return lines
	}

	return []string{err.Error()}
}

// Event is a notification captured by Recorder.
type Event struct {
	Success bool
	Title   string
	Err     error
}

// Recorder keeps every notification in memory. It is used by tests, and by
// callers that want to inspect notifications after a flow finishes.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Success(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Success: true, Title: title})
}

func (r *Recorder) Error(title string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Title: title, Err: err})
}

// Events returns a copy of the recorded notifications in the order received.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
