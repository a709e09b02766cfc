// internal/domain/models/client.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment flag values (primer cheque).
const (
	PrimerChequeObtenido  = "OBTENIDO"
	PrimerChequePendiente = "PENDIENTE"
)

// Supplement flag values.
const (
	SuplementadoSi = "si"
	SuplementadoNo = "no"
)

// Client is a homeowner or business whose claim the organization handles.
//
// ID is the human-readable client code (see system/clientid) and never
// changes after creation. Optional text fields are nil rather than "".
type Client struct {
	ID             string             `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`

	// Contact
	FirstName      string  `bson:"first_name" json:"first_name"`
	LastName       string  `bson:"last_name" json:"last_name"`
	FullNameCI     string  `bson:"full_name_ci" json:"-"`
	Email          *string `bson:"email,omitempty" json:"email,omitempty"`
	Phone          *string `bson:"phone,omitempty" json:"phone,omitempty"`
	AlternatePhone *string `bson:"alternate_phone,omitempty" json:"alternate_phone,omitempty"`

	// Property
	PropertyAddress *string `bson:"property_address,omitempty" json:"property_address,omitempty"`
	City            *string `bson:"city,omitempty" json:"city,omitempty"`
	State           *string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode         *string `bson:"zip_code,omitempty" json:"zip_code,omitempty"`
	PropertyType    *string `bson:"property_type,omitempty" json:"property_type,omitempty"`

	// Insurance
	InsuranceCompany *string `bson:"insurance_company,omitempty" json:"insurance_company,omitempty"`
	PolicyNumber     *string `bson:"policy_number,omitempty" json:"policy_number,omitempty"`
	ClaimNumber      *string `bson:"claim_number,omitempty" json:"claim_number,omitempty"`
	Deductible       *int    `bson:"deductible,omitempty" json:"deductible,omitempty"`
	CoverageAmount   *int    `bson:"coverage_amount,omitempty" json:"coverage_amount,omitempty"`

	// Claim state
	ClaimStatus  string `bson:"claim_status" json:"claim_status"`
	Suplementado string `bson:"suplementado" json:"suplementado"`
	PrimerCheque string `bson:"primer_cheque" json:"primer_cheque"`

	// Dates
	DateOfLoss         *time.Time `bson:"date_of_loss,omitempty" json:"date_of_loss,omitempty"`
	ClaimSubmittedDate *time.Time `bson:"claim_submitted_date,omitempty" json:"claim_submitted_date,omitempty"`
	ScheduledVisit     *time.Time `bson:"scheduled_visit,omitempty" json:"scheduled_visit,omitempty"`
	AdjustmentDate     *time.Time `bson:"adjustment_date,omitempty" json:"adjustment_date,omitempty"`
	LastContactDate    *time.Time `bson:"last_contact_date,omitempty" json:"last_contact_date,omitempty"`
	NextContactDate    *time.Time `bson:"next_contact_date,omitempty" json:"next_contact_date,omitempty"`

	// People
	SalesPerson      *string `bson:"sales_person,omitempty" json:"sales_person,omitempty"`
	AssignedAdjuster *string `bson:"assigned_adjuster,omitempty" json:"assigned_adjuster,omitempty"`

	// Damage and money
	DamageType        *string `bson:"damage_type,omitempty" json:"damage_type,omitempty"`
	DamageDescription *string `bson:"damage_description,omitempty" json:"damage_description,omitempty"`
	EstimatedLoss     *int    `bson:"estimated_loss,omitempty" json:"estimated_loss,omitempty"`
	InsuranceEstimate *int    `bson:"insurance_estimate,omitempty" json:"insurance_estimate,omitempty"`
	FirstCheckAmount  *int    `bson:"first_check_amount,omitempty" json:"first_check_amount,omitempty"`
	ActualPayout      *int    `bson:"actual_payout,omitempty" json:"actual_payout,omitempty"`

	Notes              *string `bson:"notes,omitempty" json:"notes,omitempty"`
	InternalNotes      *string `bson:"internal_notes,omitempty" json:"internal_notes,omitempty"`
	ConstructionStatus *string `bson:"construction_status,omitempty" json:"construction_status,omitempty"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	UpdatedBy primitive.ObjectID `bson:"updated_by" json:"updated_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (c Client) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
