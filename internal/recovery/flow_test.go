package recovery

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/brackethq/bracket/api"
	"github.com/brackethq/bracket/internal/notify"
	"github.com/brackethq/bracket/internal/validate"
)

type fakeAuthority struct {
	mu            sync.Mutex
	requests      []api.PasswordResetRequest
	completions   []api.CompletePasswordResetRequest
	resetToken    string
	requestErr    error
	completeErr   error
	beforeRespond func(ctx context.Context)
}

func (f *fakeAuthority) RequestPasswordReset(ctx context.Context, req *api.PasswordResetRequest) (*api.PasswordResetResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, *req)
	f.mu.Unlock()

	if f.beforeRespond != nil {
		f.beforeRespond(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	return &api.PasswordResetResponse{ResetToken: f.resetToken}, nil
}

func (f *fakeAuthority) CompletePasswordReset(ctx context.Context, req *api.CompletePasswordResetRequest) (*api.SuccessResponse, error) {
	f.mu.Lock()
	f.completions = append(f.completions, *req)
	f.mu.Unlock()

	if f.beforeRespond != nil {
		f.beforeRespond(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return &api.SuccessResponse{Success: true}, nil
}

type navigations struct {
	mu  sync.Mutex
	got []Destination
}

func (n *navigations) Navigate(to Destination) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, to)
}

type harness struct {
	flow      *Flow
	authority *fakeAuthority
	notifier  *notify.Recorder
	navigator *navigations
}

func newHarness(t *testing.T, authority *fakeAuthority, token string) harness {
	t.Helper()
	h := harness{
		authority: authority,
		notifier:  &notify.Recorder{},
		navigator: &navigations{},
	}
	h.flow = New(context.Background(), Options{
		Authority:    authority,
		Notifier:     h.notifier,
		Navigator:    h.navigator,
		InitialToken: token,
	})
	t.Cleanup(h.flow.Close)
	return h
}

func TestFlow_SubmitEmail(t *testing.T) {
	t.Run("malformed email is never sent", func(t *testing.T) {
		h := newHarness(t, &fakeAuthority{}, "")

		for _, email := range []string{"", "not-an-email", "a b@c.com", "@"} {
			err := h.flow.SubmitEmail(email)
			var fieldErrs validate.Error
			assert.Assert(t, errors.As(err, &fieldErrs), "email=%q", email)
			assert.Assert(t, len(fieldErrs["email"]) > 0, "email=%q", email)
		}

		assert.Equal(t, len(h.authority.requests), 0)
		assert.Equal(t, len(h.notifier.Events()), 0)
		assert.Equal(t, h.flow.State().Step, AwaitingEmail)
	})

	t.Run("unknown email gets the same notification", func(t *testing.T) {
		h := newHarness(t, &fakeAuthority{}, "")

		err := h.flow.SubmitEmail("nobody@example.com")
		assert.NilError(t, err)

		assert.DeepEqual(t, h.authority.requests, []api.PasswordResetRequest{{Email: "nobody@example.com"}})
		assert.DeepEqual(t, h.notifier.Events(), []notify.Event{{Success: true, Title: RequestSentTitle}})
		assert.DeepEqual(t, h.flow.State(), State{Step: AwaitingCredential})
	})

	t.Run("token from the authority is pre-filled", func(t *testing.T) {
		h := newHarness(t, &fakeAuthority{resetToken: "abc123"}, "")

		err := h.flow.SubmitEmail("a@b.com")
		assert.NilError(t, err)
		assert.DeepEqual(t, h.flow.State(), State{Step: AwaitingCredential, Token: "abc123"})
	})

	t.Run("failed request stays on the email step", func(t *testing.T) {
		failure := api.Error{Code: http.StatusInternalServerError}
		h := newHarness(t, &fakeAuthority{requestErr: failure}, "")

		err := h.flow.SubmitEmail("a@b.com")
		assert.Equal(t, api.ErrorStatusCode(err), int32(http.StatusInternalServerError))
		assert.Equal(t, h.flow.State().Step, AwaitingEmail)

		events := h.notifier.Events()
		assert.Equal(t, len(events), 1)
		assert.Equal(t, events[0].Title, RequestFailedTitle)
		assert.Assert(t, !events[0].Success)
	})
}

func TestFlow_SubmitCredential(t *testing.T) {
	valid := Credential{Token: "abc123", NewPassword: "password1", ConfirmPassword: "password1"}

	t.Run("link token skips the email step", func(t *testing.T) {
		h := newHarness(t, &fakeAuthority{}, "abc123")
		assert.DeepEqual(t, h.flow.State(), State{Step: AwaitingCredential, Token: "abc123"})
	})

	t.Run("short password is never sent", func(t *testing.T) {
		h := newHarness(t, &fakeAuthority{}, "abc123")

		err := h.flow.SubmitCredential(Credential{Token: "abc123", NewPassword: "short", ConfirmPassword: "short"})
		assert.Error(t, err, "validation failed: new_password: must be at least 8 characters long")
		assert.Equal(t, len(h.authority.completions), 0)
	})

	t.Run("mismatched confirmation is never sent", func(t *testing.T) {
		h := newHarness(t, &fakeAuthority{}, "abc123")

		err := h.flow.SubmitCredential(Credential{Token: "abc123", NewPassword: "password1", ConfirmPassword: "password2"})
		assert.Error(t, err, "validation failed: confirm_password: does not match new_password")
		assert.Equal(t, len(h.authority.completions), 0)
		assert.Equal(t, len(h.navigator.got), 0)
	})

	t.Run("success notifies and navigates to sign in", func(t *testing.T) {
		h := newHarness(t, &fakeAuthority{}, "abc123")

		err := h.flow.SubmitCredential(valid)
		assert.NilError(t, err)

		assert.DeepEqual(t, h.authority.completions, []api.CompletePasswordResetRequest{
			{Token: "abc123", NewPassword: "password1"},
		})
		assert.DeepEqual(t, h.notifier.Events(), []notify.Event{{Success: true, Title: ResetSuccessTitle}})
		assert.DeepEqual(t, h.navigator.got, []Destination{SignIn})
		assert.Equal(t, h.flow.State().Step, Completed)

		// a completed flow ignores further submissions
		err = h.flow.SubmitCredential(valid)
		assert.NilError(t, err)
		assert.Equal(t, len(h.authority.completions), 1)
	})

	t.Run("rejected token is reported and the form stays", func(t *testing.T) {
		failure := api.Error{Code: http.StatusBadRequest, Message: "Invalid or expired reset token"}
		h := newHarness(t, &fakeAuthority{completeErr: failure}, "abc123")

		err := h.flow.SubmitCredential(valid)
		assert.Error(t, err, "Invalid or expired reset token")

		assert.DeepEqual(t, h.flow.State(), State{Step: AwaitingCredential, Token: "abc123"})
		assert.Equal(t, len(h.navigator.got), 0)

		events := h.notifier.Events()
		assert.Equal(t, len(events), 1)
		assert.Equal(t, events[0].Title, ResetFailedTitle)
		assert.Equal(t, api.ErrorStatusCode(events[0].Err), int32(http.StatusBadRequest))
	})
}

func TestFlow_Close(t *testing.T) {
	t.Run("submit after close", func(t *testing.T) {
		h := newHarness(t, &fakeAuthority{}, "")
		h.flow.Close()

		err := h.flow.SubmitEmail("a@b.com")
		assert.ErrorIs(t, err, ErrClosed)
		assert.Equal(t, len(h.authority.requests), 0)
	})

	t.Run("close while a request is in flight", func(t *testing.T) {
		authority := &fakeAuthority{}
		h := newHarness(t, authority, "abc123")

		authority.beforeRespond = func(ctx context.Context) {
			h.flow.Close()
			<-ctx.Done()
		}

		err := h.flow.SubmitCredential(Credential{Token: "abc123", NewPassword: "password1", ConfirmPassword: "password1"})
		assert.ErrorIs(t, err, ErrClosed)

		// the outcome of the cancelled call is dropped
		assert.Equal(t, len(h.notifier.Events()), 0)
		assert.Equal(t, len(h.navigator.got), 0)
		assert.Equal(t, h.flow.State().Step, AwaitingCredential)
	})
}
