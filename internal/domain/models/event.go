// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types.
const (
	EventTypeMeeting     = "MEETING"
	EventTypeAdjustment  = "ADJUSTMENT"
	EventTypeEstimate    = "ESTIMATE"
	EventTypeInspection  = "INSPECTION"
	EventTypeAppointment = "APPOINTMENT"
	EventTypeDeadline    = "DEADLINE"
	EventTypeOther       = "OTHER"
)

// Event statuses.
const (
	EventStatusScheduled   = "SCHEDULED"
	EventStatusCompleted   = "COMPLETED"
	EventStatusCancelled   = "CANCELLED"
	EventStatusRescheduled = "RESCHEDULED"
)

// IsValidEventType reports whether t is a known event type.
func IsValidEventType(t string) bool {
	switch t {
	case EventTypeMeeting, EventTypeAdjustment, EventTypeEstimate, EventTypeInspection,
		EventTypeAppointment, EventTypeDeadline, EventTypeOther:
		return true
	}
	return false
}

// IsValidEventStatus reports whether s is a known event status.
func IsValidEventStatus(s string) bool {
	switch s {
	case EventStatusScheduled, EventStatusCompleted, EventStatusCancelled, EventStatusRescheduled:
		return true
	}
	return false
}

// Event is a calendar entry, optionally tied to a client.
// EventTime and EndTime are "HH:MM" strings on EventDate's day.
type Event struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	ClientID       *string            `bson:"client_id,omitempty" json:"client_id,omitempty"`

	EventType   string    `bson:"event_type" json:"event_type"`
	Title       string    `bson:"title" json:"title"`
	Description *string   `bson:"description,omitempty" json:"description,omitempty"`
	EventDate   time.Time `bson:"event_date" json:"event_date"`
	EventTime   *string   `bson:"event_time,omitempty" json:"event_time,omitempty"`
	EndTime     *string   `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Address     *string   `bson:"address,omitempty" json:"address,omitempty"`

	// Adjustment visit details
	AdjusterNumber   *string `bson:"adjuster_number,omitempty" json:"adjuster_number,omitempty"`
	AdjusterName     *string `bson:"adjuster_name,omitempty" json:"adjuster_name,omitempty"`
	AdjusterPhone    *string `bson:"adjuster_phone,omitempty" json:"adjuster_phone,omitempty"`
	AdjusterEmail    *string `bson:"adjuster_email,omitempty" json:"adjuster_email,omitempty"`
	InsuranceCompany *string `bson:"insurance_company,omitempty" json:"insurance_company,omitempty"`
	ClaimNumber      *string `bson:"claim_number,omitempty" json:"claim_number,omitempty"`

	Status       string  `bson:"status" json:"status"`
	ReminderSent bool    `bson:"reminder_sent" json:"reminder_sent"`
	Notes        *string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	UpdatedBy primitive.ObjectID `bson:"updated_by" json:"updated_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
