package recovery

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/brackethq/bracket/internal/validate"
)

// stubError is comparable, so effects carrying it can be compared with
// assert.DeepEqual.
type stubError string

func (e stubError) Error() string {
	return string(e)
}

func TestInitial(t *testing.T) {
	assert.DeepEqual(t, Initial(""), State{Step: AwaitingEmail})
	assert.DeepEqual(t, Initial("abc123"), State{Step: AwaitingCredential, Token: "abc123"})
}

func TestTransition_AwaitingEmail(t *testing.T) {
	start := Initial("")

	type testCase struct {
		name            string
		event           Event
		expectedState   State
		expectedEffects []Effect
	}

	failure := stubError("connection refused")

	testCases := []testCase{
		{
			name:            "valid email requests a reset",
			event:           EmailSubmitted{Email: "a@b.com"},
			expectedState:   start,
			expectedEffects: []Effect{RequestReset{Email: "a@b.com"}},
		},
		{
			name:          "empty email",
			event:         EmailSubmitted{},
			expectedState: start,
			expectedEffects: []Effect{ShowValidation{Err: validate.Error{
				"email": {"is required"},
			}}},
		},
		{
			name:          "email without an at sign",
			event:         EmailSubmitted{Email: "not-an-email"},
			expectedState: start,
			expectedEffects: []Effect{ShowValidation{Err: validate.Error{
				"email": {"invalid email address"},
			}}},
		},
		{
			name:          "email with whitespace",
			event:         EmailSubmitted{Email: "a @b.com"},
			expectedState: start,
			expectedEffects: []Effect{ShowValidation{Err: validate.Error{
				"email": {"invalid email address"},
			}}},
		},
		{
			name:            "authority accepted without a token",
			event:           ResetRequested{},
			expectedState:   State{Step: AwaitingCredential},
			expectedEffects: []Effect{Notify{Title: RequestSentTitle}},
		},
		{
			name:            "authority returned a token",
			event:           ResetRequested{Token: "abc123"},
			expectedState:   State{Step: AwaitingCredential, Token: "abc123"},
			expectedEffects: []Effect{Notify{Title: RequestSentTitle}},
		},
		{
			name:            "request failed",
			event:           ResetRequestFailed{Err: failure},
			expectedState:   start,
			expectedEffects: []Effect{ReportFailure{Title: RequestFailedTitle, Err: failure}},
		},
		{
			name:          "credential is ignored",
			event:         CredentialSubmitted{Credential: Credential{Token: "t"}},
			expectedState: start,
		},
		{
			name:          "completion is ignored",
			event:         ResetCompleted{},
			expectedState: start,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next, effects := Transition(start, tc.event)
			assert.DeepEqual(t, next, tc.expectedState)
			assert.DeepEqual(t, effects, tc.expectedEffects)
		})
	}
}

func TestTransition_AwaitingCredential(t *testing.T) {
	start := Initial("abc123")

	type testCase struct {
		name            string
		event           Event
		expectedState   State
		expectedEffects []Effect
	}

	failure := stubError("Invalid or expired reset token")

	testCases := []testCase{
		{
			name: "valid credential completes the reset",
			event: CredentialSubmitted{Credential: Credential{
				Token:           "abc123",
				NewPassword:     "password1",
				ConfirmPassword: "password1",
			}},
			expectedState: start,
			expectedEffects: []Effect{CompleteReset{
				Token:       "abc123",
				NewPassword: "password1",
			}},
		},
		{
			name: "password too short",
			event: CredentialSubmitted{Credential: Credential{
				Token:           "abc123",
				NewPassword:     "short",
				ConfirmPassword: "short",
			}},
			expectedState: start,
			expectedEffects: []Effect{ShowValidation{Err: validate.Error{
				"new_password": {"must be at least 8 characters long"},
			}}},
		},
		{
			name: "password too long",
			event: CredentialSubmitted{Credential: Credential{
				Token:           "abc123",
				NewPassword:     "0123456789012345678901234567890123456789012345678",
				ConfirmPassword: "0123456789012345678901234567890123456789012345678",
			}},
			expectedState: start,
			expectedEffects: []Effect{ShowValidation{Err: validate.Error{
				"new_password": {"must be no more than 48 characters long"},
			}}},
		},
		{
			name: "confirmation does not match",
			event: CredentialSubmitted{Credential: Credential{
				Token:           "abc123",
				NewPassword:     "password1",
				ConfirmPassword: "password2",
			}},
			expectedState: start,
			expectedEffects: []Effect{ShowValidation{Err: validate.Error{
				"confirm_password": {"does not match new_password"},
			}}},
		},
		{
			name:          "everything missing",
			event:         CredentialSubmitted{},
			expectedState: start,
			expectedEffects: []Effect{ShowValidation{Err: validate.Error{
				"token":        {"is required"},
				"new_password": {"is required"},
			}}},
		},
		{
			name:          "reset completed",
			event:         ResetCompleted{},
			expectedState: State{Step: Completed},
			expectedEffects: []Effect{
				Notify{Title: ResetSuccessTitle},
				Navigate{To: SignIn},
			},
		},
		{
			name:            "reset failed keeps the form",
			event:           ResetFailed{Err: failure},
			expectedState:   start,
			expectedEffects: []Effect{ReportFailure{Title: ResetFailedTitle, Err: failure}},
		},
		{
			name:          "email is ignored",
			event:         EmailSubmitted{Email: "a@b.com"},
			expectedState: start,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next, effects := Transition(start, tc.event)
			assert.DeepEqual(t, next, tc.expectedState)
			assert.DeepEqual(t, effects, tc.expectedEffects)
		})
	}
}

func TestTransition_Completed(t *testing.T) {
	start := State{Step: Completed}
	events := []Event{
		EmailSubmitted{Email: "a@b.com"},
		ResetRequested{Token: "abc123"},
		CredentialSubmitted{Credential: Credential{Token: "t", NewPassword: "password1", ConfirmPassword: "password1"}},
		ResetCompleted{},
		ResetFailed{Err: stubError("boom")},
	}
	for _, event := range events {
		next, effects := Transition(start, event)
		assert.DeepEqual(t, next, start)
		assert.Equal(t, len(effects), 0)
	}
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, AwaitingEmail.String(), "awaiting email")
	assert.Equal(t, AwaitingCredential.String(), "awaiting credential")
	assert.Equal(t, Completed.String(), "completed")
	assert.Equal(t, Step(9).String(), "unknown")
}
