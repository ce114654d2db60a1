package api

import "github.com/brackethq/bracket/internal/validate"

// Password limits enforced by the authority.
const (
	PasswordMinLength = 8
	PasswordMaxLength = 48
)

type PasswordResetRequest struct {
	Email string `json:"email"`
}

func (r PasswordResetRequest) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("email", r.Email),
		validate.Email("email", r.Email),
	}
}

// PasswordResetResponse is the reply to a reset request. The authority gives
// the same reply whether or not an account uses the email. ResetToken is only
// filled in by deployments that hand out tokens directly instead of by email,
// which production deployments never do.
type PasswordResetResponse struct {
	ResetToken string `json:"reset_token,omitempty"`
}

type CompletePasswordResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (r CompletePasswordResetRequest) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("token", r.Token),
		validate.Required("new_password", r.NewPassword),
		validate.StringRule{
			Name:      "new_password",
			Value:     r.NewPassword,
			MinLength: PasswordMinLength,
			MaxLength: PasswordMaxLength,
		},
	}
}
