// internal/app/features/events/list.go
package events

import (
	"net/http"

	eventstore "github.com/dalemusser/claimdesk/internal/app/store/events"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/patch"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList handles GET /events?from=&to= and GET /events?clientId=.
// from and to are inclusive dates.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	q := r.URL.Query()
	from, err := patch.DatePtr("from", strp(q.Get("from")))
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	to, err := patch.DatePtr("to", strp(q.Get("to")))
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list events")
	defer cancel()

	var out []models.Event
	if clientID := normalize.QueryParam(q.Get("clientId")); clientID != "" {
		out, err = h.events.ListByClient(ctx, actor.OrgID, clientID)
	} else {
		out, err = h.events.List(ctx, actor.OrgID, from, to)
	}
	if err != nil {
		h.Log.Error("list events failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, out)
}

// ServeEvent handles GET /events/{id}.
func (h *Handler) ServeEvent(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get event")
	defer cancel()

	e, err := h.events.GetByID(ctx, actor.OrgID, id)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, e)
}

func eventID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, eventstore.ErrNotFound
	}
	return id, nil
}

func strp(s string) *string { return &s }
