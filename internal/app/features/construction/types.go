// internal/app/features/construction/types.go
package construction

import (
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/patch"
	"github.com/dalemusser/claimdesk/internal/domain/models"
)

type projectInput struct {
	ClientID        *string `json:"client_id" validate:"omitempty,max=40" label:"Client"`
	ProjectName     *string `json:"project_name" validate:"omitempty,max=200" label:"Project name"`
	PropertyAddress *string `json:"property_address" validate:"omitempty,max=300" label:"Property address"`

	RoofType    *string `json:"roof_type" validate:"omitempty,max=100" label:"Roof type"`
	RoofColor   *string `json:"roof_color" validate:"omitempty,max=100" label:"Roof color"`
	RoofSQ      *int    `json:"roof_sq" validate:"omitempty,min=0" label:"Roof squares"`
	SidingType  *string `json:"siding_type" validate:"omitempty,max=100" label:"Siding type"`
	SidingColor *string `json:"siding_color" validate:"omitempty,max=100" label:"Siding color"`
	SidingSQ    *int    `json:"siding_sq" validate:"omitempty,min=0" label:"Siding squares"`

	PermitNumber *string `json:"permit_number" validate:"omitempty,max=100" label:"Permit number"`
	PermitStatus *string `json:"permit_status" validate:"omitempty,permitstatus" label:"Permit status"`
	PermitDate   *string `json:"permit_date"`

	StartDate               *string `json:"start_date"`
	EstimatedCompletionDate *string `json:"estimated_completion_date"`
	ActualCompletionDate    *string `json:"actual_completion_date"`

	ProjectStatus *string `json:"project_status" validate:"omitempty,projectstatus" label:"Project status"`
	EstimatedCost *int    `json:"estimated_cost" validate:"omitempty,min=0" label:"Estimated cost"`
	ActualCost    *int    `json:"actual_cost" validate:"omitempty,min=0" label:"Actual cost"`

	Contractor          *string `json:"contractor" validate:"omitempty,max=200" label:"Contractor"`
	ProjectManager      *string `json:"project_manager" validate:"omitempty,max=200" label:"Project manager"`
	Notes               *string `json:"notes" validate:"omitempty,max=10000" label:"Notes"`
	SpecialRequirements *string `json:"special_requirements" validate:"omitempty,max=10000" label:"Special requirements"`
}

func (in *projectInput) canonicalize() {
	for _, p := range []**string{&in.PermitStatus, &in.ProjectStatus} {
		if *p != nil {
			v := normalize.Enum(**p)
			*p = &v
		}
	}
	if in.ClientID != nil {
		v := normalize.Enum(*in.ClientID)
		in.ClientID = &v
	}
}

type dateField struct {
	name, label string
	raw         *string
}

func (in projectInput) dates() []dateField {
	return []dateField{
		{"permit_date", "Permit date", in.PermitDate},
		{"start_date", "Start date", in.StartDate},
		{"estimated_completion_date", "Estimated completion date", in.EstimatedCompletionDate},
		{"actual_completion_date", "Actual completion date", in.ActualCompletionDate},
	}
}

// project builds a new project from in. Client and name are the caller's.
func (in projectInput) project() (models.ConstructionProject, error) {
	p := models.ConstructionProject{
		PropertyAddress:     normalize.OptionalText(in.PropertyAddress),
		RoofType:            normalize.OptionalText(in.RoofType),
		RoofColor:           normalize.OptionalText(in.RoofColor),
		RoofSQ:              in.RoofSQ,
		SidingType:          normalize.OptionalText(in.SidingType),
		SidingColor:         normalize.OptionalText(in.SidingColor),
		SidingSQ:            in.SidingSQ,
		PermitNumber:        normalize.OptionalText(in.PermitNumber),
		PermitStatus:        deref(in.PermitStatus),
		ProjectStatus:       deref(in.ProjectStatus),
		EstimatedCost:       in.EstimatedCost,
		ActualCost:          in.ActualCost,
		Contractor:          normalize.OptionalText(in.Contractor),
		ProjectManager:      normalize.OptionalText(in.ProjectManager),
		Notes:               htmlsanitize.CleanPtr(normalize.OptionalText(in.Notes)),
		SpecialRequirements: htmlsanitize.CleanPtr(normalize.OptionalText(in.SpecialRequirements)),
	}
	dsts := []**time.Time{&p.PermitDate, &p.StartDate, &p.EstimatedCompletionDate, &p.ActualCompletionDate}
	for i, f := range in.dates() {
		t, err := patch.DatePtr(f.label, f.raw)
		if err != nil {
			return models.ConstructionProject{}, err
		}
		*dsts[i] = t
	}
	return p, nil
}

// apply adds every field except client_id to b.
func (in projectInput) apply(b *patch.Builder) {
	b.Required("project_name", "Project name", in.ProjectName).
		Text("property_address", in.PropertyAddress).
		Text("roof_type", in.RoofType).
		Text("roof_color", in.RoofColor).
		Int("roof_sq", in.RoofSQ).
		Text("siding_type", in.SidingType).
		Text("siding_color", in.SidingColor).
		Int("siding_sq", in.SidingSQ).
		Text("permit_number", in.PermitNumber).
		Required("permit_status", "Permit status", in.PermitStatus).
		Required("project_status", "Project status", in.ProjectStatus).
		Int("estimated_cost", in.EstimatedCost).
		Int("actual_cost", in.ActualCost).
		Text("contractor", in.Contractor).
		Text("project_manager", in.ProjectManager).
		Note("notes", in.Notes).
		Note("special_requirements", in.SpecialRequirements)
	for _, f := range in.dates() {
		b.Date(f.name, f.label, f.raw)
	}
}

var projectFields = []string{
	"client_id", "project_name", "property_address", "roof_type", "roof_color", "roof_sq",
	"siding_type", "siding_color", "siding_sq", "permit_number", "permit_status", "permit_date",
	"start_date", "estimated_completion_date", "actual_completion_date", "project_status",
	"estimated_cost", "actual_cost", "contractor", "project_manager", "notes", "special_requirements",
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
