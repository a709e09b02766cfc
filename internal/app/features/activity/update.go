// internal/app/features/activity/update.go
package activity

import (
	"net/http"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/policy/recordpolicy"
	activitylogstore "github.com/dalemusser/claimdesk/internal/app/store/activitylogs"
	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/patch"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func logID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, activitylogstore.ErrNotFound
	}
	return id, nil
}

// HandleUpdate handles PATCH /activity-logs/{id}. Editing a log does not
// re-run automation.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := logID(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in updateInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if in.ActivityType != nil {
		v := normalize.Enum(*in.ActivityType)
		in.ActivityType = &v
	}
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	b := patch.New().
		Required("activity_type", "Activity type", in.ActivityType).
		Text("subject", in.Subject).
		Note("description", in.Description).
		Note("outcome", in.Outcome).
		Text("contact_method", in.ContactMethod).
		Int("duration", in.Duration)
	if in.PerformedAt != nil {
		// performed_at cannot be cleared.
		t, err := patch.DatePtr("Performed at", in.PerformedAt)
		if err != nil {
			httpjson.Fail(w, h.Log, err)
			return
		}
		if t != nil {
			b.Set("performed_at", *t)
		}
	}
	var fields []string
	for _, f := range []string{"activity_type", "subject", "description", "outcome", "contact_method", "duration", "performed_at"} {
		if b.Has(f) {
			fields = append(fields, f)
		}
	}
	upd, err := b.Update(time.Now())
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update activity log")
	defer cancel()

	a, err := h.logs.Update(ctx, actor.OrgID, id, upd)
	if err != nil {
		h.Log.Error("update activity log failed", zap.Error(err), zap.String("activity_id", id.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	if len(fields) > 0 {
		h.AuditLog.Updated(ctx, r, actor, audit.EntityActivityLog, a.ID.Hex(), fields)
		h.touchLastContact(r, a)
	}

	httpjson.OK(w, a)
}

// HandleDelete handles DELETE /activity-logs/{id} (ADMIN, CO_ADMIN).
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanDelete(actor, "activity logs"); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := logID(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete activity log")
	defer cancel()

	n, err := h.logs.Delete(ctx, actor.OrgID, id)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if n == 0 {
		httpjson.Fail(w, h.Log, activitylogstore.ErrNotFound)
		return
	}
	h.AuditLog.Deleted(ctx, r, actor, audit.EntityActivityLog, id.Hex())

	httpjson.NoContent(w)
}
