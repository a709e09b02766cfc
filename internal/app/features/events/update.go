// internal/app/features/events/update.go
package events

import (
	"net/http"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/policy/recordpolicy"
	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	eventstore "github.com/dalemusser/claimdesk/internal/app/store/events"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/patch"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleUpdate handles PATCH /events/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := eventID(r)
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update event")
	defer cancel()

	b := patch.New()
	in.apply(b)
	if in.EventDate != nil {
		d, err := patch.DatePtr("Event date", in.EventDate)
		switch {
		case err != nil:
			b.Fail(err)
		case d == nil:
			b.Fail(apperr.Validation("Event date is required."))
		default:
			b.Set("event_date", *d)
		}
	}
	if in.ClientID != nil {
		if v := normalize.OptionalText(in.ClientID); v == nil {
			b.Unset("client_id")
		} else if ok, err := h.clients.Exists(ctx, actor.OrgID, *v); err != nil {
			b.Fail(err)
		} else if !ok {
			b.Fail(clientstore.ErrNotFound)
		} else {
			b.Set("client_id", *v)
		}
	}
	if b.Err() != nil {
		httpjson.Fail(w, h.Log, b.Err())
		return
	}
	if b.Empty() {
		e, err := h.events.GetByID(ctx, actor.OrgID, id)
		if err != nil {
			httpjson.Fail(w, h.Log, err)
			return
		}
		httpjson.OK(w, e)
		return
	}

	var fields []string
	for _, f := range eventFields {
		if b.Has(f) {
			fields = append(fields, f)
		}
	}
	b.Set("updated_by", actor.UserID)

	upd, err := b.Update(time.Now())
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	e, err := h.events.Update(ctx, actor.OrgID, id, upd)
	if err != nil {
		h.Log.Error("update event failed", zap.Error(err), zap.String("event_id", id.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.Updated(ctx, r, actor, audit.EntityEvent, e.ID.Hex(), fields)

	httpjson.OK(w, e)
}

// HandleDelete handles DELETE /events/{id} (ADMIN, CO_ADMIN).
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanDelete(actor, "events"); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := eventID(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete event")
	defer cancel()

	n, err := h.events.Delete(ctx, actor.OrgID, id)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if n == 0 {
		httpjson.Fail(w, h.Log, eventstore.ErrNotFound)
		return
	}
	h.AuditLog.Deleted(ctx, r, actor, audit.EntityEvent, id.Hex())

	httpjson.NoContent(w)
}
