package members

import (
	"time"

	"github.com/dalemusser/claimdesk/internal/domain/models"
)

// memberView is a member joined with the user's display fields.
type memberView struct {
	models.Member
	Name         string     `json:"name"`
	Status       string     `json:"status"`
	LastSignedIn *time.Time `json:"last_signed_in,omitempty"`
}

type listResponse struct {
	Items      []memberView `json:"items"`
	Count      int64        `json:"count"`
	MaxMembers int          `json:"max_members"`
	PrevCursor string       `json:"prev_cursor,omitempty"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type addInput struct {
	Username string  `json:"username" validate:"required,email,max=254" label:"Username"`
	FullName *string `json:"full_name" validate:"omitempty,max=200" label:"Full name"`
	Password *string `json:"password" label:"Password"`
	Role     string  `json:"role" validate:"required,role" label:"Role"`
}

type addResponse struct {
	Member memberView `json:"member"`
	// GeneratedPassword is set only when the request left the password
	// empty; it is not retrievable later.
	GeneratedPassword string `json:"generated_password,omitempty"`
}

type roleInput struct {
	Role string `json:"role" validate:"required,role" label:"Role"`
}

type resetResponse struct {
	Password string `json:"password"`
}
