// internal/app/features/events/create.go
package events

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/patch"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /events. event_type, title and event_date are
// required.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in eventInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	in.canonicalize()
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	eventType := normalize.OptionalText(in.EventType)
	title := normalize.OptionalText(in.Title)
	if eventType == nil || title == nil {
		httpjson.Fail(w, h.Log, apperr.Validation("Event type and title are required."))
		return
	}
	date, err := patch.DatePtr("Event date", in.EventDate)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if date == nil {
		httpjson.Fail(w, h.Log, apperr.Validation("Event date is required."))
		return
	}

	e := models.Event{
		OrganizationID:   actor.OrgID,
		ClientID:         normalize.OptionalText(in.ClientID),
		EventType:        *eventType,
		Title:            *title,
		Description:      htmlsanitize.CleanPtr(normalize.OptionalText(in.Description)),
		EventDate:        *date,
		EventTime:        normalize.OptionalText(in.EventTime),
		EndTime:          normalize.OptionalText(in.EndTime),
		Address:          normalize.OptionalText(in.Address),
		AdjusterNumber:   normalize.OptionalText(in.AdjusterNumber),
		AdjusterName:     normalize.OptionalText(in.AdjusterName),
		AdjusterPhone:    normalize.OptionalText(in.AdjusterPhone),
		AdjusterEmail:    normalize.OptionalText(in.AdjusterEmail),
		InsuranceCompany: normalize.OptionalText(in.InsuranceCompany),
		ClaimNumber:      normalize.OptionalText(in.ClaimNumber),
		Notes:            htmlsanitize.CleanPtr(normalize.OptionalText(in.Notes)),
		CreatedBy:        actor.UserID,
		UpdatedBy:        actor.UserID,
	}
	if v := normalize.OptionalText(in.Status); v != nil {
		e.Status = *v
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create event")
	defer cancel()

	if e.ClientID != nil {
		ok, err := h.clients.Exists(ctx, actor.OrgID, *e.ClientID)
		if err != nil {
			httpjson.Fail(w, h.Log, err)
			return
		}
		if !ok {
			httpjson.Fail(w, h.Log, clientstore.ErrNotFound)
			return
		}
	}

	e, err = h.events.Create(ctx, e)
	if err != nil {
		h.Log.Error("create event failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.Created(ctx, r, actor, audit.EntityEvent, e.ID.Hex())

	httpjson.Created(w, e)
}
