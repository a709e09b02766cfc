package login

import (
	"time"

	"github.com/dalemusser/claimdesk/internal/domain/models"
)

type credentials struct {
	Username string `json:"username" validate:"required,max=254" label:"Username"`
	Password string `json:"password" validate:"required,max=128" label:"Password"`
}

type userView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
}

type loginResponse struct {
	User         userView             `json:"user"`
	Role         string               `json:"role"`
	Organization *models.Organization `json:"organization,omitempty"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
}
