package api

import "github.com/brackethq/bracket/internal/validate"

// Collaborator is a user with access to a club.
type Collaborator struct {
	ID          UserID `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AccountType string `json:"account_type,omitempty"`
}

type AddCollaboratorRequest struct {
	ClubID ClubID `json:"-"`
	Email  string `json:"email"`
}

func (r AddCollaboratorRequest) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("club", r.ClubID),
		validate.Required("email", r.Email),
		validate.Email("email", r.Email),
	}
}
