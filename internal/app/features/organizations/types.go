package organizations

import "github.com/dalemusser/claimdesk/internal/domain/models"

type onboardInput struct {
	Name         string  `json:"name" validate:"required,max=200" label:"Organization name"`
	BusinessType string  `json:"business_type" validate:"required,max=100" label:"Business type"`
	Logo         *string `json:"logo" validate:"omitempty,max=2048" label:"Logo"`
	TimeZone     *string `json:"time_zone" validate:"omitempty,max=64" label:"Time zone"`
	MemberCount  int     `json:"member_count" validate:"min=1,max=20" label:"Member count"`
}

// Credential is a generated login, returned once at onboarding.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type onboardResponse struct {
	Organization   models.Organization `json:"organization"`
	GeneratedUsers []Credential        `json:"generated_users"`
}

type updateInput struct {
	Name         *string `json:"name" validate:"omitempty,max=200" label:"Organization name"`
	BusinessType *string `json:"business_type" validate:"omitempty,max=100" label:"Business type"`
	Logo         *string `json:"logo" validate:"omitempty,max=2048" label:"Logo"`
	TimeZone     *string `json:"time_zone" validate:"omitempty,max=64" label:"Time zone"`
}
