// internal/app/features/construction/update.go
package construction

import (
	"net/http"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/policy/recordpolicy"
	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	constructionstore "github.com/dalemusser/claimdesk/internal/app/store/construction"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/patch"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleUpdate handles PATCH /construction-projects/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	var in projectInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	in.canonicalize()
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update construction project")
	defer cancel()

	b := patch.New()
	in.apply(b)
	if in.ClientID != nil {
		if v := normalize.OptionalText(in.ClientID); v == nil {
			b.Unset("client_id")
		} else if ok, err := h.clients.Exists(ctx, actor.OrgID, *v); err != nil {
			b.Fail(err)
		} else if !ok {
			b.Fail(clientstore.ErrNotFound)
		} else {
			b.Set("client_id", *v)
		}
	}
	if b.Err() != nil {
		httpjson.Fail(w, h.Log, b.Err())
		return
	}
	if b.Empty() {
		p, err := h.projects.GetByID(ctx, actor.OrgID, id)
		if err != nil {
			httpjson.Fail(w, h.Log, err)
			return
		}
		httpjson.OK(w, p)
		return
	}

	var fields []string
	for _, f := range projectFields {
		if b.Has(f) {
			fields = append(fields, f)
		}
	}
	b.Set("updated_by", actor.UserID)

	upd, err := b.Update(time.Now())
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	p, err := h.projects.Update(ctx, actor.OrgID, id, upd)
	if err != nil {
		h.Log.Error("update construction project failed", zap.Error(err), zap.String("project_id", id.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.Updated(ctx, r, actor, audit.EntityConstruction, p.ID.Hex(), fields)

	httpjson.OK(w, p)
}

// HandleDelete handles DELETE /construction-projects/{id} (ADMIN, CO_ADMIN).
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanDelete(actor, "construction projects"); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := projectID(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete construction project")
	defer cancel()

	n, err := h.projects.Delete(ctx, actor.OrgID, id)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if n == 0 {
		httpjson.Fail(w, h.Log, constructionstore.ErrNotFound)
		return
	}
	h.AuditLog.Deleted(ctx, r, actor, audit.EntityConstruction, id.Hex())

	httpjson.NoContent(w)
}
