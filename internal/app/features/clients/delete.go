// internal/app/features/clients/delete.go
package clients

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/policy/recordpolicy"
	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /clients/{id} (ADMIN, CO_ADMIN).
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanDelete(actor, "clients"); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete client")
	defer cancel()

	id := chi.URLParam(r, "id")
	n, err := h.clients.Delete(ctx, actor.OrgID, id)
	if err != nil {
		h.Log.Error("delete client failed", zap.Error(err), zap.String("client_id", id))
		httpjson.Fail(w, h.Log, err)
		return
	}
	if n == 0 {
		httpjson.Fail(w, h.Log, clientstore.ErrNotFound)
		return
	}
	h.AuditLog.Deleted(ctx, r, actor, audit.EntityClient, id)

	httpjson.NoContent(w)
}
