package recovery

import (
	"context"
	"errors"
	"sync"

	"github.com/brackethq/bracket/api"
	"github.com/brackethq/bracket/internal/logging"
	"github.com/brackethq/bracket/internal/notify"
)

// ErrClosed is returned by a Flow that was closed, including when the flow is
// closed while a call to the authority is in flight.
var ErrClosed = errors.New("password recovery flow is closed")

// Authority is the part of the API client used by the flow.
type Authority interface {
	RequestPasswordReset(ctx context.Context, req *api.PasswordResetRequest) (*api.PasswordResetResponse, error)
	CompletePasswordReset(ctx context.Context, req *api.CompletePasswordResetRequest) (*api.SuccessResponse, error)
}

// Navigator moves the user out of the flow.
type Navigator interface {
	Navigate(to Destination)
}

// NavigatorFunc adapts a function to a Navigator.
type NavigatorFunc func(to Destination)

func (f NavigatorFunc) Navigate(to Destination) {
	f(to)
}

type Options struct {
	Authority Authority
	Notifier  notify.Notifier
	Navigator Navigator
	// InitialToken is a token the user arrived with, usually from the token
	// query parameter of a reset link.
	InitialToken string
}

// Flow drives Transition. Every call to the authority is bound to the
// lifetime of the flow: Close cancels calls in flight, and their outcomes are
// dropped.
//
// A Flow is safe for concurrent use.
type Flow struct {
	authority Authority
	notifier  notify.Notifier
	navigator Navigator

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	state  State
	closed bool
}

func New(ctx context.Context, opts Options) *Flow {
	ctx, cancel := context.WithCancel(ctx)
	f := &Flow{
		authority: opts.Authority,
		notifier:  opts.Notifier,
		navigator: opts.Navigator,
		ctx:       ctx,
		cancel:    cancel,
		state:     Initial(opts.InitialToken),
	}
	if f.notifier == nil {
		f.notifier = &notify.Recorder{}
	}
	if f.navigator == nil {
		f.navigator = NavigatorFunc(func(Destination) {})
	}
	return f
}

// State returns a copy of the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SubmitEmail requests a reset token for email. It returns a validate.Error
// without contacting the authority when the email is malformed, and the
// authority's error when the request fails.
func (f *Flow) SubmitEmail(email string) error {
	return f.dispatch(EmailSubmitted{Email: email})
}

// SubmitCredential sets a new password. It returns a validate.Error without
// contacting the authority when any field is invalid, and the authority's
// error when the reset is rejected.
func (f *Flow) SubmitCredential(credential Credential) error {
	return f.dispatch(CredentialSubmitted{Credential: credential})
}

// Close ends the flow. Calls to the authority in flight are cancelled.
func (f *Flow) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cancel()
}

func (f *Flow) dispatch(event Event) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	prev := f.state
	next, effects := Transition(prev, event)
	f.state = next
	f.mu.Unlock()

	if next.Step != prev.Step {
		logging.Debugf("password recovery: %s -> %s", prev.Step, next.Step)
	}

	var result error
	for _, effect := range effects {
		if err := f.run(effect); err != nil && result == nil {
			result = err
		}
	}
	return result
}

func (f *Flow) run(effect Effect) error {
	switch e := effect.(type) {
	case RequestReset:
		resp, err := f.authority.RequestPasswordReset(f.ctx, &api.PasswordResetRequest{Email: e.Email})
		if err != nil {
			return f.outcome(ResetRequestFailed{Err: err}, err)
		}
		return f.outcome(ResetRequested{Token: resp.ResetToken}, nil)

	case CompleteReset:
		_, err := f.authority.CompletePasswordReset(f.ctx, &api.CompletePasswordResetRequest{
			Token:       e.Token,
			NewPassword: e.NewPassword,
		})
		if err != nil {
			return f.outcome(ResetFailed{Err: err}, err)
		}
		return f.outcome(ResetCompleted{}, nil)

	case Notify:
		f.notifier.Success(e.Title)

	case ShowValidation:
		return e.Err

	case ReportFailure:
		f.notifier.Error(e.Title, e.Err)

	case Navigate:
		f.navigator.Navigate(e.To)
	}
	return nil
}

// outcome feeds the result of an authority call back into the flow. When the
// flow was closed while the call was in flight the result is dropped.
func (f *Flow) outcome(event Event, callErr error) error {
	if err := f.dispatch(event); err != nil {
		return err
	}
	return callErr
}
