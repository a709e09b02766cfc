// internal/app/features/documents/list.go
package documents

import (
	"net/http"

	constructionstore "github.com/dalemusser/claimdesk/internal/app/store/construction"
	documentstore "github.com/dalemusser/claimdesk/internal/app/store/documents"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList handles GET /documents?clientId= or ?projectId=, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	clientID := normalize.QueryParam(r.URL.Query().Get("clientId"))
	projectID := normalize.QueryParam(r.URL.Query().Get("projectId"))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list documents")
	defer cancel()

	var out []models.Document
	switch {
	case clientID != "":
		out, err = h.docs.ListByClient(ctx, actor.OrgID, clientID)
	case projectID != "":
		pid, perr := primitive.ObjectIDFromHex(projectID)
		if perr != nil {
			httpjson.Fail(w, h.Log, constructionstore.ErrNotFound)
			return
		}
		out, err = h.docs.ListByProject(ctx, actor.OrgID, pid)
	default:
		err = apperr.Validation("clientId or projectId is required.")
	}
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, out)
}

func docID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, documentstore.ErrNotFound
	}
	return id, nil
}
