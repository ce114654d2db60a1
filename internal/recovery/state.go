// Package recovery implements the two step password recovery flow. The user
// first exchanges an email address for a reset token, then exchanges the token
// and a new password for a completed reset.
//
// All decisions live in Transition, a pure function from (state, event) to
// (state, effects). Flow executes the effects against the authority.
package recovery

import (
	"github.com/brackethq/bracket/api"
	"github.com/brackethq/bracket/internal/validate"
)

type Step int

const (
	// AwaitingEmail waits for the address to send a reset token to.
	AwaitingEmail Step = iota
	// AwaitingCredential waits for the token and the new password.
	AwaitingCredential
	// Completed means the password was reset and the user left the flow.
	Completed
)

func (s Step) String() string {
	switch s {
	case AwaitingEmail:
		return "awaiting email"
	case AwaitingCredential:
		return "awaiting credential"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Notification titles. The request title is the same whether or not an
// account exists for the email.
const (
	RequestSentTitle   = "If this email exists, a reset link was sent"
	ResetSuccessTitle  = "Password has been reset"
	RequestFailedTitle = "Could not request a password reset"
	ResetFailedTitle   = "Could not reset the password"
)

// State of the flow. Token is the value of the token field of the credential
// step; it is pre-filled from a reset link or from the authority.
type State struct {
	Step  Step
	Token string
}

// Initial returns the state a flow starts in. A token supplied from outside
// (a reset link) skips the email step.
func Initial(token string) State {
	if token != "" {
		return State{Step: AwaitingCredential, Token: token}
	}
	return State{Step: AwaitingEmail}
}

// Credential is what the user submits in the credential step.
type Credential struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (c Credential) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("token", c.Token),
		validate.Required("new_password", c.NewPassword),
		validate.StringRule{
			Name:      "new_password",
			Value:     c.NewPassword,
			MinLength: api.PasswordMinLength,
			MaxLength: api.PasswordMaxLength,
		},
		validate.Matches("confirm_password", c.ConfirmPassword,
			validate.Field{Name: "new_password", Value: c.NewPassword}),
	}
}

// Event is an input to Transition.
type Event interface {
	isEvent()
}

// EmailSubmitted is sent when the user submits the email form.
type EmailSubmitted struct {
	Email string
}

// ResetRequested is sent when the authority accepted a reset request. Token
// is empty unless the authority hands tokens out directly.
type ResetRequested struct {
	Token string
}

// ResetRequestFailed is sent when the reset request call failed.
type ResetRequestFailed struct {
	Err error
}

// CredentialSubmitted is sent when the user submits the credential form.
type CredentialSubmitted struct {
	Credential Credential
}

// ResetCompleted is sent when the authority accepted the new password.
type ResetCompleted struct{}

// ResetFailed is sent when the authority rejected the new password or token.
type ResetFailed struct {
	Err error
}

func (EmailSubmitted) isEvent()      {}
func (ResetRequested) isEvent()      {}
func (ResetRequestFailed) isEvent()  {}
func (CredentialSubmitted) isEvent() {}
func (ResetCompleted) isEvent()      {}
func (ResetFailed) isEvent()         {}

// Effect is an output of Transition that Flow carries out.
type Effect interface {
	isEffect()
}

// RequestReset asks the authority to send a reset token to Email.
type RequestReset struct {
	Email string
}

// CompleteReset asks the authority to set a new password.
type CompleteReset struct {
	Token       string
	NewPassword string
}

// Notify shows a notification to the user.
type Notify struct {
	Title string
}

// ShowValidation shows field problems next to the fields of the current form.
type ShowValidation struct {
	Err validate.Error
}

// ReportFailure surfaces a failed authority call.
type ReportFailure struct {
	Title string
	Err   error
}

type Destination string

// SignIn is where the user is sent after a completed reset.
const SignIn Destination = "sign-in"

// Navigate sends the user out of the flow.
type Navigate struct {
	To Destination
}

func (RequestReset) isEffect()   {}
func (CompleteReset) isEffect()  {}
func (Notify) isEffect()         {}
func (ShowValidation) isEffect() {}
func (ReportFailure) isEffect()  {}
func (Navigate) isEffect()       {}

// Transition returns the next state and the effects to run for event. Events
// that do not apply to the current step leave the state unchanged and
// produce no effects.
func Transition(state State, event Event) (State, []Effect) {
	switch state.Step {
	case AwaitingEmail:
		switch e := event.(type) {
		case EmailSubmitted:
			req := api.PasswordResetRequest{Email: e.Email}
			if err := validateRequest(req); err != nil {
				return state, []Effect{ShowValidation{Err: err}}
			}
			return state, []Effect{RequestReset{Email: e.Email}}

		case ResetRequested:
			next := State{Step: AwaitingCredential, Token: state.Token}
			if e.Token != "" {
				next.Token = e.Token
			}
			return next, []Effect{Notify{Title: RequestSentTitle}}

		case ResetRequestFailed:
			return state, []Effect{ReportFailure{Title: RequestFailedTitle, Err: e.Err}}
		}

	case AwaitingCredential:
		switch e := event.(type) {
		case CredentialSubmitted:
			if err := validateRequest(e.Credential); err != nil {
				return state, []Effect{ShowValidation{Err: err}}
			}
			return state, []Effect{CompleteReset{
				Token:       e.Credential.Token,
				NewPassword: e.Credential.NewPassword,
			}}

		case ResetCompleted:
			return State{Step: Completed}, []Effect{
				Notify{Title: ResetSuccessTitle},
				Navigate{To: SignIn},
			}

		case ResetFailed:
			return state, []Effect{ReportFailure{Title: ResetFailedTitle, Err: e.Err}}
		}
	}

	return state, nil
}

func validateRequest(req validate.Request) validate.Error {
	err := validate.Validate(req)
	if err == nil {
		return nil
	}
	return err.(validate.Error)
}
