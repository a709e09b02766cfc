// internal/app/features/activity/list.go
package activity

import (
	"net/http"
	"strconv"

	activitylogstore "github.com/dalemusser/claimdesk/internal/app/store/activitylogs"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.uber.org/zap"
)

// ServeList handles GET /activity-logs?clientId=. Without a client the
// organization's latest logs are returned.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list activity logs")
	defer cancel()

	var out []models.ActivityLog
	if clientID := normalize.QueryParam(r.URL.Query().Get("clientId")); clientID != "" {
		out, err = h.logs.ListByClient(ctx, actor.OrgID, clientID)
	} else {
		out, err = h.logs.Recent(ctx, actor.OrgID, activitylogstore.DefaultRecent)
	}
	if err != nil {
		h.Log.Error("list activity logs failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, out)
}

// ServeRecent handles GET /activity-logs/recent?limit= (default 50,
// capped at 200).
func (h *Handler) ServeRecent(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	limit := 0
	if raw := normalize.QueryParam(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpjson.Fail(w, h.Log, apperr.Validation("limit must be a positive number"))
			return
		}
		limit = n
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "recent activity logs")
	defer cancel()

	out, err := h.logs.Recent(ctx, actor.OrgID, limit)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, out)
}
