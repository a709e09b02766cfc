// internal/app/features/activity/types.go
package activity

import "github.com/dalemusser/claimdesk/internal/domain/models"

type createInput struct {
	ClientID      *string `json:"client_id" validate:"omitempty,max=40" label:"Client"`
	ActivityType  string  `json:"activity_type" validate:"required,activitytype" label:"Activity type"`
	Subject       *string `json:"subject" validate:"omitempty,max=300" label:"Subject"`
	Description   *string `json:"description" validate:"omitempty,max=10000" label:"Description"`
	Outcome       *string `json:"outcome" validate:"omitempty,max=5000" label:"Outcome"`
	ContactMethod *string `json:"contact_method" validate:"omitempty,max=60" label:"Contact method"`
	Duration      *int    `json:"duration" validate:"omitempty,min=0,max=1440" label:"Duration"`
	PerformedAt   *string `json:"performed_at"`
}

type updateInput struct {
	ActivityType  *string `json:"activity_type" validate:"omitempty,activitytype" label:"Activity type"`
	Subject       *string `json:"subject" validate:"omitempty,max=300" label:"Subject"`
	Description   *string `json:"description" validate:"omitempty,max=10000" label:"Description"`
	Outcome       *string `json:"outcome" validate:"omitempty,max=5000" label:"Outcome"`
	ContactMethod *string `json:"contact_method" validate:"omitempty,max=60" label:"Contact method"`
	Duration      *int    `json:"duration" validate:"omitempty,min=0,max=1440" label:"Duration"`
	PerformedAt   *string `json:"performed_at"`
}

// createResponse reports the tasks automation produced alongside the log.
// AutomationError is set when the log was stored but automation failed.
type createResponse struct {
	Activity        models.ActivityLog `json:"activity"`
	AutomatedTasks  []models.Task      `json:"automated_tasks"`
	AutomationError string             `json:"automation_error,omitempty"`
}
