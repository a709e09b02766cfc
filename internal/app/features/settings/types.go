// internal/app/features/settings/types.go
package settings

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type claimStatusInput struct {
	Name        string  `json:"name" validate:"required,max=50" label:"Name"`
	DisplayName string  `json:"display_name" validate:"required,max=100" label:"Display name"`
	Color       *string `json:"color" validate:"omitempty,hexcolor" label:"Color"`
	SortOrder   int     `json:"sort_order" validate:"min=0,max=1000" label:"Sort order"`
}

type claimStatusesResponse struct {
	Defaults []string                   `json:"defaults"`
	Custom   []models.CustomClaimStatus `json:"custom"`
}

type activeInput struct {
	IsActive *bool `json:"is_active" validate:"required" label:"Active"`
}

type roleInput struct {
	Name        *string `json:"name" validate:"omitempty,max=100" label:"Name"`
	Description *string `json:"description" validate:"omitempty,max=500" label:"Description"`
}

type roleMemberInput struct {
	UserID    string `json:"user_id" validate:"required,objectid" label:"User"`
	IsPrimary bool   `json:"is_primary"`
}

type replaceMembersInput struct {
	Members []roleMemberInput `json:"members" validate:"max=50,dive" label:"Members"`
}

type roleView struct {
	models.WorkflowRole
	Members []models.WorkflowRoleMember `json:"members"`
}

type ruleInput struct {
	ActivityType    *string `json:"activity_type" validate:"omitempty,activitytype" label:"Activity type"`
	TaskTitle       *string `json:"task_title" validate:"omitempty,max=300" label:"Task title"`
	TaskDescription *string `json:"task_description" validate:"omitempty,max=5000" label:"Task description"`
	Category        *string `json:"category" validate:"omitempty,taskcategory" label:"Category"`
	Priority        *string `json:"priority" validate:"omitempty,taskpriority" label:"Priority"`
	DueInDays       *int    `json:"due_in_days" validate:"omitempty,min=0,max=365" label:"Due in days"`
	RoleID          *string `json:"role_id" validate:"omitempty,objectid" label:"Workflow role"`
	IsActive        *bool   `json:"is_active"`
}

func pathID(r *http.Request, notFound error) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return id, nil
}
