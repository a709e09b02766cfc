// internal/app/features/construction/list.go
package construction

import (
	"net/http"

	constructionstore "github.com/dalemusser/claimdesk/internal/app/store/construction"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/paging"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList handles GET /construction-projects?status=&before=&after=,
// ordered by project name.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	status := normalize.Enum(r.URL.Query().Get("status"))
	if status != "" && !models.IsValidProjectStatus(status) {
		httpjson.Fail(w, h.Log, apperr.Validation("Unknown project status %q.", status))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list construction projects")
	defer cancel()

	before, after := paging.Cursors(r)
	page, err := h.projects.ListPage(ctx, actor.OrgID, status, before, after)
	if err != nil {
		h.Log.Error("list construction projects failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, page)
}

// ServeSearch handles GET /construction-projects/search?q=.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "search construction projects")
	defer cancel()

	out, err := h.projects.Search(ctx, actor.OrgID, normalize.QueryParam(r.URL.Query().Get("q")))
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, out)
}

// ServeProject handles GET /construction-projects/{id}.
func (h *Handler) ServeProject(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := projectID(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get construction project")
	defer cancel()

	p, err := h.projects.GetByID(ctx, actor.OrgID, id)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, p)
}

// ServeByClient handles GET /construction-projects/client/{clientId}.
func (h *Handler) ServeByClient(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get client construction project")
	defer cancel()

	p, err := h.projects.GetByClient(ctx, actor.OrgID, normalize.Enum(chi.URLParam(r, "clientId")))
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, p)
}

func projectID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, constructionstore.ErrNotFound
	}
	return id, nil
}
