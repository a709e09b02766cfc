// internal/app/features/clients/create.go
package clients

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/app/workflow/claimstatus"
	"github.com/dalemusser/claimdesk/internal/app/workflow/notify"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /clients.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in clientInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	in.canonicalize()
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	c, err := in.client()
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if c.FirstName == "" || c.LastName == "" {
		httpjson.Fail(w, h.Log, apperr.Validation("First name and last name are required."))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create client")
	defer cancel()

	if c.ClaimStatus, err = h.resolveStatus(ctx, actor, deref(in.ClaimStatus), "", c.PrimerCheque); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	c.OrganizationID = actor.OrgID
	c.CreatedBy = actor.UserID
	c.UpdatedBy = actor.UserID

	c, err = h.clients.Create(ctx, c)
	if err != nil {
		h.Log.Error("create client failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.Created(ctx, r, actor, audit.EntityClient, c.ID)

	h.notify(ctx, c, notify.Message{
		Type:  models.NotifyClientCreated,
		Title: "Nuevo cliente",
	}.WithBody(c.FullName()))
	if claimstatus.EnsureProject(ctx, h.projects, h.Log, c, actor.UserID) {
		h.afterProjectCreated(ctx, c)
	}

	httpjson.Created(w, c)
}
