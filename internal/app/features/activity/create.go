// internal/app/features/activity/create.go
package activity

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
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

// HandleCreate handles POST /activity-logs. The log is stored first; the
// automation rules then run against it and whatever they produce (or the
// reason they failed) is reported alongside the stored log.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in createInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	in.ActivityType = normalize.Enum(in.ActivityType)
	in.ClientID = normalize.OptionalText(in.ClientID)
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	performedAt, err := patch.DatePtr("Performed at", in.PerformedAt)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create activity log")
	defer cancel()

	if in.ClientID != nil {
		ok, err := h.clients.Exists(ctx, actor.OrgID, *in.ClientID)
		if err != nil {
			httpjson.Fail(w, h.Log, err)
			return
		}
		if !ok {
			httpjson.Fail(w, h.Log, clientstore.ErrNotFound)
			return
		}
	}

	a := models.ActivityLog{
		OrganizationID: actor.OrgID,
		ClientID:       in.ClientID,
		ActivityType:   in.ActivityType,
		Subject:        normalize.OptionalText(in.Subject),
		Description:    htmlsanitize.CleanPtr(normalize.OptionalText(in.Description)),
		Outcome:        htmlsanitize.CleanPtr(normalize.OptionalText(in.Outcome)),
		ContactMethod:  normalize.OptionalText(in.ContactMethod),
		Duration:       in.Duration,
		PerformedBy:    actor.UserID,
	}
	if performedAt != nil {
		a.PerformedAt = *performedAt
	}

	a, err = h.logs.Create(ctx, a)
	if err != nil {
		h.Log.Error("create activity log failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.Created(ctx, r, actor, audit.EntityActivityLog, a.ID.Hex())

	h.touchLastContact(r, a)

	resp := createResponse{Activity: a, AutomatedTasks: []models.Task{}}
	if h.Automation != nil {
		tasks, err := h.Automation.OnActivityCreated(ctx, a, actor)
		if err != nil {
			h.Log.Warn("activity automation failed",
				zap.Error(err),
				zap.String("org_id", actor.OrgID.Hex()),
				zap.String("activity_id", a.ID.Hex()))
			resp.AutomationError = "automation rules could not be applied"
		} else {
			resp.AutomatedTasks = tasks
		}
	}

	httpjson.Created(w, resp)
}

// touchLastContact moves the client's last contact date forward when a
// contact activity is logged. Best effort.
func (h *Handler) touchLastContact(r *http.Request, a models.ActivityLog) {
	if a.ClientID == nil || !models.IsContactActivity(a.ActivityType) {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "touch last contact")
	defer cancel()
	if err := h.clients.TouchLastContact(ctx, a.OrganizationID, *a.ClientID, a.PerformedAt); err != nil {
		h.Log.Warn("update last contact failed",
			zap.Error(err),
			zap.String("client_id", *a.ClientID),
			zap.Time("performed_at", a.PerformedAt))
	}
}
