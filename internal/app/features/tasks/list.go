// internal/app/features/tasks/list.go
package tasks

import (
	"net/http"

	taskstore "github.com/dalemusser/claimdesk/internal/app/store/tasks"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList handles GET /tasks?status=&clientId=&assignedTo=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	q := r.URL.Query()
	f := taskstore.ListFilter{
		Status:   normalize.Enum(q.Get("status")),
		ClientID: normalize.QueryParam(q.Get("clientId")),
	}
	if raw := normalize.QueryParam(q.Get("assignedTo")); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.Fail(w, h.Log, apperr.Validation("assignedTo must be a member id"))
			return
		}
		f.AssignedTo = &id
	}
	h.serve(w, r, actor, f)
}

// ServeMine handles GET /tasks/mine: tasks assigned to the caller.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	uid := actor.UserID
	h.serve(w, r, actor, taskstore.ListFilter{
		Status:     normalize.Enum(r.URL.Query().Get("status")),
		AssignedTo: &uid,
	})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, actor authz.Actor, f taskstore.ListFilter) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list tasks")
	defer cancel()

	out, err := h.tasks.List(ctx, actor.OrgID, f)
	if err != nil {
		h.Log.Error("list tasks failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, out)
}

// ServeTask handles GET /tasks/{id}.
func (h *Handler) ServeTask(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := taskID(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get task")
	defer cancel()

	t, err := h.tasks.GetByID(ctx, actor.OrgID, id)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, t)
}

func taskID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, taskstore.ErrNotFound
	}
	return id, nil
}
