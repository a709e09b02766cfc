// internal/app/features/clients/list.go
package clients

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ServeList handles GET /clients?status=. Without a status every client
// of the organization is returned, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list clients")
	defer cancel()

	var out []models.Client
	if status := normalize.Enum(r.URL.Query().Get("status")); status != "" {
		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
		out, err = h.clients.Find(ctx, actor.OrgID, bson.M{"claim_status": status}, opts)
	} else {
		out, err = h.clients.List(ctx, actor.OrgID)
	}
	if err != nil {
		h.Log.Error("list clients failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, out)
}

// ServeSearch handles GET /clients/search?q=.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "search clients")
	defer cancel()

	out, err := h.clients.Search(ctx, actor.OrgID, normalize.QueryParam(r.URL.Query().Get("q")))
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, out)
}

// ServeClient handles GET /clients/{id}.
func (h *Handler) ServeClient(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get client")
	defer cancel()

	c, err := h.clients.GetByID(ctx, actor.OrgID, chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, c)
}
