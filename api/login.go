package api

import "github.com/brackethq/bracket/internal/validate"

// LoginRequest exchanges an email and password for an access key.
type LoginRequest struct {
	Email    string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("username", r.Email),
		validate.Email("username", r.Email),
		validate.Required("password", r.Password),
	}
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      UserID `json:"user_id"`
}
