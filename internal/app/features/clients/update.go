// internal/app/features/clients/update.go
package clients

import (
	"net/http"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/patch"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/app/workflow/claimstatus"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleUpdate handles PATCH /clients/{id}. The stored status is always
// re-normalized against the resulting payment flag, so marking the first
// check as received moves the client to LISTA_PARA_CONSTRUIR.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update client")
	defer cancel()

	id := chi.URLParam(r, "id")
	cur, err := h.clients.GetByID(ctx, actor.OrgID, id)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	b := patch.New()
	in.apply(b)

	if in.ClaimStatus != nil || in.PrimerCheque != nil {
		status := cur.ClaimStatus
		if in.ClaimStatus != nil {
			status = deref(in.ClaimStatus)
		}
		pf := cur.PrimerCheque
		if in.PrimerCheque != nil {
			pf = deref(in.PrimerCheque)
		}
		next, err := h.resolveStatus(ctx, actor, status, cur.ClaimStatus, pf)
		if err != nil {
			httpjson.Fail(w, h.Log, err)
			return
		}
		if next != "" && next != cur.ClaimStatus {
			b.Set("claim_status", next)
		}
	}

	if b.Err() != nil {
		httpjson.Fail(w, h.Log, b.Err())
		return
	}
	if b.Empty() {
		httpjson.OK(w, cur)
		return
	}
	b.Set("updated_by", actor.UserID)
	fields := changedFields(b)

	upd, err := b.Update(time.Now())
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	c, err := h.clients.Update(ctx, actor.OrgID, id, upd)
	if err != nil {
		h.Log.Error("update client failed", zap.Error(err), zap.String("client_id", id))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.Updated(ctx, r, actor, audit.EntityClient, c.ID, fields)

	if c.ClaimStatus != cur.ClaimStatus {
		h.afterStatusChange(ctx, actor, c, cur.ClaimStatus)
	}
	if claimstatus.EnsureProject(ctx, h.projects, h.Log, c, actor.UserID) {
		h.afterProjectCreated(ctx, c)
	}

	httpjson.OK(w, c)
}
