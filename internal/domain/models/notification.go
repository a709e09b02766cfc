// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotifyClaimStatusChanged = "claim_status_changed"
	NotifyClientCreated      = "client_created"
	NotifyTaskAssigned       = "task_assigned"
	NotifyTasksAutomated     = "tasks_automated"
	NotifyEventReminder      = "event_reminder"
	NotifyReadyConstruction  = "ready_for_construction"
)

// Notification is addressed to one user in one organization.
type Notification struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type           string             `bson:"type" json:"type"`
	Title          string             `bson:"title" json:"title"`
	Body           *string            `bson:"body,omitempty" json:"body,omitempty"`
	EntityType     *string            `bson:"entity_type,omitempty" json:"entity_type,omitempty"`
	EntityID       *string            `bson:"entity_id,omitempty" json:"entity_id,omitempty"`
	ReadAt         *time.Time         `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
