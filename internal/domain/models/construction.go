// internal/domain/models/construction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permit statuses.
const (
	PermitPendiente   = "PENDIENTE"
	PermitAprobado    = "APROBADO"
	PermitRechazado   = "RECHAZADO"
	PermitNoRequerido = "NO_REQUERIDO"
)

// Project statuses.
const (
	ProjectPlanificacion = "PLANIFICACION"
	ProjectEnProgreso    = "EN_PROGRESO"
	ProjectPausado       = "PAUSADO"
	ProjectCompletado    = "COMPLETADO"
	ProjectCancelado     = "CANCELADO"
)

// IsValidPermitStatus reports whether s is a known permit status.
func IsValidPermitStatus(s string) bool {
	switch s {
	case PermitPendiente, PermitAprobado, PermitRechazado, PermitNoRequerido:
		return true
	}
	return false
}

// IsValidProjectStatus reports whether s is a known project status.
func IsValidProjectStatus(s string) bool {
	switch s {
	case ProjectPlanificacion, ProjectEnProgreso, ProjectPausado, ProjectCompletado, ProjectCancelado:
		return true
	}
	return false
}

// ConstructionProject is the rebuild work that follows an approved claim.
// At most one project exists per client within an organization.
type ConstructionProject struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	ClientID       *string            `bson:"client_id,omitempty" json:"client_id,omitempty"`

	ProjectName     string  `bson:"project_name" json:"project_name"`
	ProjectNameCI   string  `bson:"project_name_ci" json:"-"`
	PropertyAddress *string `bson:"property_address,omitempty" json:"property_address,omitempty"`

	RoofType    *string `bson:"roof_type,omitempty" json:"roof_type,omitempty"`
	RoofColor   *string `bson:"roof_color,omitempty" json:"roof_color,omitempty"`
	RoofSQ      *int    `bson:"roof_sq,omitempty" json:"roof_sq,omitempty"`
	SidingType  *string `bson:"siding_type,omitempty" json:"siding_type,omitempty"`
	SidingColor *string `bson:"siding_color,omitempty" json:"siding_color,omitempty"`
	SidingSQ    *int    `bson:"siding_sq,omitempty" json:"siding_sq,omitempty"`

	PermitNumber *string    `bson:"permit_number,omitempty" json:"permit_number,omitempty"`
	PermitStatus string     `bson:"permit_status" json:"permit_status"`
	PermitDate   *time.Time `bson:"permit_date,omitempty" json:"permit_date,omitempty"`

	StartDate               *time.Time `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EstimatedCompletionDate *time.Time `bson:"estimated_completion_date,omitempty" json:"estimated_completion_date,omitempty"`
	ActualCompletionDate    *time.Time `bson:"actual_completion_date,omitempty" json:"actual_completion_date,omitempty"`

	ProjectStatus string `bson:"project_status" json:"project_status"`
	EstimatedCost *int   `bson:"estimated_cost,omitempty" json:"estimated_cost,omitempty"`
	ActualCost    *int   `bson:"actual_cost,omitempty" json:"actual_cost,omitempty"`

	Contractor          *string `bson:"contractor,omitempty" json:"contractor,omitempty"`
	ProjectManager      *string `bson:"project_manager,omitempty" json:"project_manager,omitempty"`
	Notes               *string `bson:"notes,omitempty" json:"notes,omitempty"`
	SpecialRequirements *string `bson:"special_requirements,omitempty" json:"special_requirements,omitempty"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	UpdatedBy primitive.ObjectID `bson:"updated_by" json:"updated_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
