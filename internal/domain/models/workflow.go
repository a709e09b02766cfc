// internal/domain/models/workflow.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkflowRole is an assignment target such as "scope reviewer".
type WorkflowRole struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"-"`
	Description    *string            `bson:"description,omitempty" json:"description,omitempty"`
	CreatedBy      primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// WorkflowRoleMember places a user in a role. At most one member of a
// role has IsPrimary set.
type WorkflowRoleMember struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	RoleID         primitive.ObjectID `bson:"role_id" json:"role_id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	IsPrimary      bool               `bson:"is_primary" json:"is_primary"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// AutomationRule turns a logged activity type into a follow-up task.
type AutomationRule struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	ActivityType   string             `bson:"activity_type" json:"activity_type"`

	TaskTitle       string              `bson:"task_title" json:"task_title"`
	TaskDescription *string             `bson:"task_description,omitempty" json:"task_description,omitempty"`
	Category        string              `bson:"category" json:"category"`
	Priority        string              `bson:"priority" json:"priority"`
	DueInDays       *int                `bson:"due_in_days,omitempty" json:"due_in_days,omitempty"`
	RoleID          *primitive.ObjectID `bson:"role_id,omitempty" json:"role_id,omitempty"`
	IsActive        bool                `bson:"is_active" json:"is_active"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
