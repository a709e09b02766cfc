// internal/app/features/clients/types.go
package clients

import (
	"strings"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/patch"
	"github.com/dalemusser/claimdesk/internal/domain/models"
)

// clientInput is the body of both create and update. On update a nil
// field is left alone and an empty string clears it.
type clientInput struct {
	FirstName      *string `json:"first_name" validate:"omitempty,max=100" label:"First name"`
	LastName       *string `json:"last_name" validate:"omitempty,max=100" label:"Last name"`
	Email          *string `json:"email" validate:"omitempty,email,max=254" label:"Email"`
	Phone          *string `json:"phone" validate:"omitempty,max=40" label:"Phone"`
	AlternatePhone *string `json:"alternate_phone" validate:"omitempty,max=40" label:"Alternate phone"`

	PropertyAddress *string `json:"property_address" validate:"omitempty,max=300" label:"Property address"`
	City            *string `json:"city" validate:"omitempty,max=100" label:"City"`
	State           *string `json:"state" validate:"omitempty,max=100" label:"State"`
	ZipCode         *string `json:"zip_code" validate:"omitempty,max=20" label:"Zip code"`
	PropertyType    *string `json:"property_type" validate:"omitempty,max=100" label:"Property type"`

	InsuranceCompany *string `json:"insurance_company" validate:"omitempty,max=200" label:"Insurance company"`
	PolicyNumber     *string `json:"policy_number" validate:"omitempty,max=100" label:"Policy number"`
	ClaimNumber      *string `json:"claim_number" validate:"omitempty,max=100" label:"Claim number"`
	Deductible       *int    `json:"deductible" validate:"omitempty,min=0" label:"Deductible"`
	CoverageAmount   *int    `json:"coverage_amount" validate:"omitempty,min=0" label:"Coverage amount"`

	ClaimStatus  *string `json:"claim_status" validate:"omitempty,max=60" label:"Claim status"`
	Suplementado *string `json:"suplementado" validate:"omitempty,oneof=si no" label:"Supplemented"`
	PrimerCheque *string `json:"primer_cheque" validate:"omitempty,oneof=OBTENIDO PENDIENTE" label:"First check"`

	DateOfLoss         *string `json:"date_of_loss"`
	ClaimSubmittedDate *string `json:"claim_submitted_date"`
	ScheduledVisit     *string `json:"scheduled_visit"`
	AdjustmentDate     *string `json:"adjustment_date"`
	LastContactDate    *string `json:"last_contact_date"`
	NextContactDate    *string `json:"next_contact_date"`

	SalesPerson      *string `json:"sales_person" validate:"omitempty,max=200" label:"Sales person"`
	AssignedAdjuster *string `json:"assigned_adjuster" validate:"omitempty,max=200" label:"Assigned adjuster"`

	DamageType        *string `json:"damage_type" validate:"omitempty,max=100" label:"Damage type"`
	DamageDescription *string `json:"damage_description" validate:"omitempty,max=5000" label:"Damage description"`
	EstimatedLoss     *int    `json:"estimated_loss" validate:"omitempty,min=0" label:"Estimated loss"`
	InsuranceEstimate *int    `json:"insurance_estimate" validate:"omitempty,min=0" label:"Insurance estimate"`
	FirstCheckAmount  *int    `json:"first_check_amount" validate:"omitempty,min=0" label:"First check amount"`
	ActualPayout      *int    `json:"actual_payout" validate:"omitempty,min=0" label:"Actual payout"`

	Notes              *string `json:"notes" validate:"omitempty,max=10000" label:"Notes"`
	InternalNotes      *string `json:"internal_notes" validate:"omitempty,max=10000" label:"Internal notes"`
	ConstructionStatus *string `json:"construction_status" validate:"omitempty,max=100" label:"Construction status"`
}

// canonicalize fixes the case of the enumerated fields before validation.
func (in *clientInput) canonicalize() {
	if in.Email != nil {
		v := normalize.Email(*in.Email)
		in.Email = &v
	}
	if in.ClaimStatus != nil {
		v := normalize.Enum(*in.ClaimStatus)
		in.ClaimStatus = &v
	}
	if in.PrimerCheque != nil {
		v := normalize.Enum(*in.PrimerCheque)
		in.PrimerCheque = &v
	}
	if in.Suplementado != nil {
		v := normalize.Status(*in.Suplementado)
		in.Suplementado = &v
	}
}

// client builds a new client from the input. Status resolution is left
// to the caller.
func (in clientInput) client() (models.Client, error) {
	c := models.Client{
		FirstName:          normalize.Name(deref(in.FirstName)),
		LastName:           normalize.Name(deref(in.LastName)),
		Email:              normalize.OptionalText(in.Email),
		Phone:              normalize.OptionalText(in.Phone),
		AlternatePhone:     normalize.OptionalText(in.AlternatePhone),
		PropertyAddress:    normalize.OptionalText(in.PropertyAddress),
		City:               normalize.OptionalText(in.City),
		State:              normalize.OptionalText(in.State),
		ZipCode:            normalize.OptionalText(in.ZipCode),
		PropertyType:       normalize.OptionalText(in.PropertyType),
		InsuranceCompany:   normalize.OptionalText(in.InsuranceCompany),
		PolicyNumber:       normalize.OptionalText(in.PolicyNumber),
		ClaimNumber:        normalize.OptionalText(in.ClaimNumber),
		Deductible:         in.Deductible,
		CoverageAmount:     in.CoverageAmount,
		Suplementado:       deref(in.Suplementado),
		PrimerCheque:       deref(in.PrimerCheque),
		SalesPerson:        normalize.OptionalText(in.SalesPerson),
		AssignedAdjuster:   normalize.OptionalText(in.AssignedAdjuster),
		DamageType:         normalize.OptionalText(in.DamageType),
		DamageDescription:  htmlsanitize.CleanPtr(normalize.OptionalText(in.DamageDescription)),
		EstimatedLoss:      in.EstimatedLoss,
		InsuranceEstimate:  in.InsuranceEstimate,
		FirstCheckAmount:   in.FirstCheckAmount,
		ActualPayout:       in.ActualPayout,
		Notes:              htmlsanitize.CleanPtr(normalize.OptionalText(in.Notes)),
		InternalNotes:      htmlsanitize.CleanPtr(normalize.OptionalText(in.InternalNotes)),
		ConstructionStatus: normalize.OptionalText(in.ConstructionStatus),
	}

	var err error
	dates := []struct {
		dst   **time.Time
		label string
		v     *string
	}{
		{&c.DateOfLoss, "Date of loss", in.DateOfLoss},
		{&c.ClaimSubmittedDate, "Claim submitted date", in.ClaimSubmittedDate},
		{&c.ScheduledVisit, "Scheduled visit", in.ScheduledVisit},
		{&c.AdjustmentDate, "Adjustment date", in.AdjustmentDate},
		{&c.LastContactDate, "Last contact date", in.LastContactDate},
		{&c.NextContactDate, "Next contact date", in.NextContactDate},
	}
	for _, d := range dates {
		if *d.dst, err = patch.DatePtr(d.label, d.v); err != nil {
			return models.Client{}, err
		}
	}
	return c, nil
}

// apply adds every provided field except the claim status to b.
func (in clientInput) apply(b *patch.Builder) {
	b.Required("first_name", "First name", name(in.FirstName)).
		Required("last_name", "Last name", name(in.LastName)).
		Text("email", in.Email).
		Text("phone", in.Phone).
		Text("alternate_phone", in.AlternatePhone).
		Text("property_address", in.PropertyAddress).
		Text("city", in.City).
		Text("state", in.State).
		Text("zip_code", in.ZipCode).
		Text("property_type", in.PropertyType).
		Text("insurance_company", in.InsuranceCompany).
		Text("policy_number", in.PolicyNumber).
		Text("claim_number", in.ClaimNumber).
		Int("deductible", in.Deductible).
		Int("coverage_amount", in.CoverageAmount).
		Required("suplementado", "Supplemented", in.Suplementado).
		Required("primer_cheque", "First check", in.PrimerCheque).
		Date("date_of_loss", "Date of loss", in.DateOfLoss).
		Date("claim_submitted_date", "Claim submitted date", in.ClaimSubmittedDate).
		Date("scheduled_visit", "Scheduled visit", in.ScheduledVisit).
		Date("adjustment_date", "Adjustment date", in.AdjustmentDate).
		Date("last_contact_date", "Last contact date", in.LastContactDate).
		Date("next_contact_date", "Next contact date", in.NextContactDate).
		Text("sales_person", in.SalesPerson).
		Text("assigned_adjuster", in.AssignedAdjuster).
		Text("damage_type", in.DamageType).
		Note("damage_description", in.DamageDescription).
		Int("estimated_loss", in.EstimatedLoss).
		Int("insurance_estimate", in.InsuranceEstimate).
		Int("first_check_amount", in.FirstCheckAmount).
		Int("actual_payout", in.ActualPayout).
		Note("notes", in.Notes).
		Note("internal_notes", in.InternalNotes).
		Text("construction_status", in.ConstructionStatus)
}

// fieldNames lists the stored field names a patch may touch, in the
// order they are reported to the audit log.
var fieldNames = []string{
	"first_name", "last_name", "email", "phone", "alternate_phone",
	"property_address", "city", "state", "zip_code", "property_type",
	"insurance_company", "policy_number", "claim_number", "deductible", "coverage_amount",
	"claim_status", "suplementado", "primer_cheque",
	"date_of_loss", "claim_submitted_date", "scheduled_visit", "adjustment_date",
	"last_contact_date", "next_contact_date",
	"sales_person", "assigned_adjuster",
	"damage_type", "damage_description", "estimated_loss", "insurance_estimate",
	"first_check_amount", "actual_payout",
	"notes", "internal_notes", "construction_status",
}

func changedFields(b *patch.Builder) []string {
	var out []string
	for _, f := range fieldNames {
		if b.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func name(s *string) *string {
	if s == nil {
		return nil
	}
	v := normalize.Name(*s)
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
