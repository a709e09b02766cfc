// internal/app/features/dashboard/statuses.go
package dashboard

import (
	"net/http"
	"sort"

	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.uber.org/zap"
)

type StatusCount struct {
	Status  string      `json:"status"`
	Count   int         `json:"count"`
	Clients []ClientRef `json:"clients"`
}

// CountByStatus groups clients by claim status. A blank status counts as
// NO_SOMETIDA. Only statuses in use are returned: built-in statuses in
// display order, then the sentinel, then custom statuses by name.
func CountByStatus(clients []models.Client) []StatusCount {
	groups := map[string]*StatusCount{}
	for _, c := range clients {
		st := c.ClaimStatus
		if st == "" {
			st = models.ClaimNoSometida
		}
		g, ok := groups[st]
		if !ok {
			g = &StatusCount{Status: st}
			groups[st] = g
		}
		g.Count++
		g.Clients = append(g.Clients, ref(c))
	}

	out := make([]StatusCount, 0, len(groups))
	for _, st := range append(append([]string{}, models.DefaultClaimStatuses...), models.ClaimListaParaConstruir) {
		if g, ok := groups[st]; ok {
			out = append(out, *g)
			delete(groups, st)
		}
	}
	custom := make([]string, 0, len(groups))
	for st := range groups {
		custom = append(custom, st)
	}
	sort.Strings(custom)
	for _, st := range custom {
		out = append(out, *groups[st])
	}
	return out
}

// ServeClaimStatuses handles GET /dashboard/claim-statuses.
func (h *Handler) ServeClaimStatuses(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "dashboard claim statuses")
	defer cancel()

	clients, err := h.clients.List(ctx, actor.OrgID)
	if err != nil {
		h.Log.Error("claim status counts failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, CountByStatus(clients))
}
