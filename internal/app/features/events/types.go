// internal/app/features/events/types.go
package events

import (
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/patch"
)

// eventInput is the body of create and update. Times are "HH:MM".
type eventInput struct {
	ClientID    *string `json:"client_id" validate:"omitempty,max=40" label:"Client"`
	EventType   *string `json:"event_type" validate:"omitempty,eventtype" label:"Event type"`
	Title       *string `json:"title" validate:"omitempty,max=300" label:"Title"`
	Description *string `json:"description" validate:"omitempty,max=10000" label:"Description"`
	EventDate   *string `json:"event_date"`
	EventTime   *string `json:"event_time" validate:"omitempty,hhmm" label:"Event time"`
	EndTime     *string `json:"end_time" validate:"omitempty,hhmm" label:"End time"`
	Address     *string `json:"address" validate:"omitempty,max=300" label:"Address"`

	AdjusterNumber   *string `json:"adjuster_number" validate:"omitempty,max=60" label:"Adjuster number"`
	AdjusterName     *string `json:"adjuster_name" validate:"omitempty,max=200" label:"Adjuster name"`
	AdjusterPhone    *string `json:"adjuster_phone" validate:"omitempty,max=40" label:"Adjuster phone"`
	AdjusterEmail    *string `json:"adjuster_email" validate:"omitempty,email,max=254" label:"Adjuster email"`
	InsuranceCompany *string `json:"insurance_company" validate:"omitempty,max=200" label:"Insurance company"`
	ClaimNumber      *string `json:"claim_number" validate:"omitempty,max=100" label:"Claim number"`

	Status *string `json:"status" validate:"omitempty,eventstatus" label:"Status"`
	Notes  *string `json:"notes" validate:"omitempty,max=10000" label:"Notes"`
}

func (in *eventInput) canonicalize() {
	for _, p := range []**string{&in.EventType, &in.Status} {
		if *p != nil {
			v := normalize.Enum(**p)
			*p = &v
		}
	}
	if in.AdjusterEmail != nil {
		v := normalize.Email(*in.AdjusterEmail)
		in.AdjusterEmail = &v
	}
	for _, p := range []**string{&in.EventTime, &in.EndTime} {
		if *p != nil {
			v := normalize.QueryParam(**p)
			*p = &v
		}
	}
}

// apply adds the plain fields to b; client and date handling is the
// caller's.
func (in eventInput) apply(b *patch.Builder) {
	b.Required("event_type", "Event type", in.EventType).
		Required("title", "Title", in.Title).
		Note("description", in.Description).
		Text("event_time", in.EventTime).
		Text("end_time", in.EndTime).
		Text("address", in.Address).
		Text("adjuster_number", in.AdjusterNumber).
		Text("adjuster_name", in.AdjusterName).
		Text("adjuster_phone", in.AdjusterPhone).
		Text("adjuster_email", in.AdjusterEmail).
		Text("insurance_company", in.InsuranceCompany).
		Text("claim_number", in.ClaimNumber).
		Required("status", "Status", in.Status).
		Note("notes", in.Notes)
}

var eventFields = []string{
	"client_id", "event_type", "title", "description", "event_date", "event_time", "end_time", "address",
	"adjuster_number", "adjuster_name", "adjuster_phone", "adjuster_email", "insurance_company", "claim_number",
	"status", "notes",
}
