package organizations

import (
	"net/http"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.uber.org/zap"
)

// ServeCurrent handles GET /organization.
func (h *Handler) ServeCurrent(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get organization")
	defer cancel()

	org, err := h.orgs.GetByID(ctx, actor.OrgID)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, org)
}

// HandleUpdate handles PATCH /organization (ADMIN). Blank fields are left
// unchanged; the slug never changes because usernames embed it.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in updateInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var upd models.Organization
	var fields []string
	if v := normalize.OptionalText(in.Name); v != nil {
		upd.Name = normalize.Name(*v)
		fields = append(fields, "name")
	}
	if v := normalize.OptionalText(in.BusinessType); v != nil {
		upd.BusinessType = *v
		fields = append(fields, "business_type")
	}
	if v := normalize.OptionalText(in.Logo); v != nil {
		upd.Logo = *v
		fields = append(fields, "logo")
	}
	if v := normalize.OptionalText(in.TimeZone); v != nil {
		if _, err := time.LoadLocation(*v); err != nil {
			httpjson.Fail(w, h.Log, apperr.Validation("Unknown time zone %q.", *v))
			return
		}
		upd.TimeZone = *v
		fields = append(fields, "time_zone")
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update organization")
	defer cancel()

	org, err := h.orgs.Update(ctx, actor.OrgID, upd)
	if err != nil {
		h.Log.Error("organization update failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.Updated(ctx, r, actor, audit.EntityOrganization, org.ID.Hex(), fields)

	httpjson.OK(w, org)
}
