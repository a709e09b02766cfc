// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task categories.
const (
	TaskCategoryDocumentacion = "DOCUMENTACION"
	TaskCategorySeguimiento   = "SEGUIMIENTO"
	TaskCategoryEstimado      = "ESTIMADO"
	TaskCategoryReunion       = "REUNION"
	TaskCategoryRevision      = "REVISION"
	TaskCategoryOtro          = "OTRO"
)

// Task priorities.
const (
	TaskPriorityAlta  = "ALTA"
	TaskPriorityMedia = "MEDIA"
	TaskPriorityBaja  = "BAJA"
)

// Task statuses.
const (
	TaskStatusPendiente  = "PENDIENTE"
	TaskStatusEnProgreso = "EN_PROGRESO"
	TaskStatusCompletada = "COMPLETADA"
	TaskStatusCancelada  = "CANCELADA"
)

// IsValidTaskCategory reports whether c is a known category.
func IsValidTaskCategory(c string) bool {
	switch c {
	case TaskCategoryDocumentacion, TaskCategorySeguimiento, TaskCategoryEstimado,
		TaskCategoryReunion, TaskCategoryRevision, TaskCategoryOtro:
		return true
	}
	return false
}

// IsValidTaskPriority reports whether p is a known priority.
func IsValidTaskPriority(p string) bool {
	return p == TaskPriorityAlta || p == TaskPriorityMedia || p == TaskPriorityBaja
}

// IsValidTaskStatus reports whether s is a known status.
func IsValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusPendiente, TaskStatusEnProgreso, TaskStatusCompletada, TaskStatusCancelada:
		return true
	}
	return false
}

// Task is a unit of follow-up work, created by hand or by an automation rule.
type Task struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	ClientID       *string            `bson:"client_id,omitempty" json:"client_id,omitempty"`

	Title       string              `bson:"title" json:"title"`
	Description *string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string              `bson:"category" json:"category"`
	Priority    string              `bson:"priority" json:"priority"`
	Status      string              `bson:"status" json:"status"`
	AssignedTo  *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	DueDate     *time.Time          `bson:"due_date,omitempty" json:"due_date,omitempty"`
	CompletedAt *time.Time          `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	Attachments []string            `bson:"attachments,omitempty" json:"attachments,omitempty"`

	// AutomationRuleID is set when the task was generated by a rule.
	AutomationRuleID *primitive.ObjectID `bson:"automation_rule_id,omitempty" json:"automation_rule_id,omitempty"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	UpdatedBy primitive.ObjectID `bson:"updated_by" json:"updated_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
