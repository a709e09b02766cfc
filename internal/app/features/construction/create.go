// internal/app/features/construction/create.go
package construction

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	constructionstore "github.com/dalemusser/claimdesk/internal/app/store/construction"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleCreate handles POST /construction-projects. A project linked to a
// client is named after the client unless project_name is given; an
// unlinked project needs a name. A client has at most one project.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
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
	p, err := in.project()
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	p.OrganizationID = actor.OrgID
	p.CreatedBy = actor.UserID
	p.UpdatedBy = actor.UserID

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create construction project")
	defer cancel()

	name := normalize.OptionalText(in.ProjectName)
	if clientID := normalize.OptionalText(in.ClientID); clientID != nil {
		c, err := h.clients.GetByID(ctx, actor.OrgID, *clientID)
		if err != nil {
			httpjson.Fail(w, h.Log, err)
			return
		}
		p.ClientID = &c.ID
		if name == nil {
			n := constructionstore.ProjectName(c)
			name = &n
		}
		if p.PropertyAddress == nil {
			p.PropertyAddress = c.PropertyAddress
		}
	}
	if name == nil {
		httpjson.Fail(w, h.Log, apperr.Validation("Project name is required."))
		return
	}
	p.ProjectName = *name

	p, err = h.projects.Create(ctx, p)
	if err != nil {
		h.Log.Error("create construction project failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.Created(ctx, r, actor, audit.EntityConstruction, p.ID.Hex())

	httpjson.Created(w, p)
}
