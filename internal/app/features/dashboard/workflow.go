// internal/app/features/dashboard/workflow.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeWorkflow handles GET /dashboard/workflow: pipeline counters and
// the next ten actions.
func (h *Handler) ServeWorkflow(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "dashboard workflow")
	defer cancel()

	res, err := h.KPI.Compute(ctx, actor.OrgID)
	if err != nil {
		h.Log.Error("workflow kpis failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, res)
}
