// internal/app/features/settings/claimstatuses.go
package settings

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/dalemusser/claimdesk/internal/app/policy/recordpolicy"
	claimstatusstore "github.com/dalemusser/claimdesk/internal/app/store/claimstatuses"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.uber.org/zap"
)

var statusName = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// StatusName canonicalizes a custom status name: upper case, inner
// spaces as underscores.
func StatusName(s string) string {
	return strings.Join(strings.Fields(normalize.Enum(s)), "_")
}

// ServeClaimStatuses handles GET /settings/claim-statuses.
func (h *Handler) ServeClaimStatuses(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list claim statuses")
	defer cancel()

	custom, err := h.statuses.List(ctx, actor.OrgID)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, claimStatusesResponse{Defaults: models.DefaultClaimStatuses, Custom: custom})
}

// HandleCreateClaimStatus handles POST /settings/claim-statuses.
func (h *Handler) HandleCreateClaimStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanEditWorkflow(actor); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in claimStatusInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	in.Name = StatusName(in.Name)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Color = normalize.OptionalText(in.Color)
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if !statusName.MatchString(in.Name) {
		httpjson.Fail(w, h.Log, apperr.Validation("Name may contain only letters, digits and underscores."))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create claim status")
	defer cancel()

	cs, err := h.statuses.Create(ctx, models.CustomClaimStatus{
		OrganizationID: actor.OrgID,
		Name:           in.Name,
		DisplayName:    in.DisplayName,
		Color:          in.Color,
		SortOrder:      in.SortOrder,
		IsActive:       true,
		CreatedBy:      actor.UserID,
	})
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.Log.Info("claim status created", zap.String("org_id", actor.OrgID.Hex()), zap.String("name", cs.Name))

	httpjson.Created(w, cs)
}

// HandleSetClaimStatusActive handles PATCH /settings/claim-statuses/{id}.
// An inactive status is no longer accepted on clients.
func (h *Handler) HandleSetClaimStatusActive(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanEditWorkflow(actor); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := pathID(r, claimstatusstore.ErrNotFound)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in activeInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "set claim status active")
	defer cancel()

	if err := h.statuses.SetActive(ctx, actor.OrgID, id, *in.IsActive); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.NoContent(w)
}

// HandleDeleteClaimStatus handles DELETE /settings/claim-statuses/{id}.
func (h *Handler) HandleDeleteClaimStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanEditWorkflow(actor); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := pathID(r, claimstatusstore.ErrNotFound)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete claim status")
	defer cancel()

	if err := h.statuses.Delete(ctx, actor.OrgID, id); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.Log.Info("claim status deleted", zap.String("org_id", actor.OrgID.Hex()), zap.String("status_id", id.Hex()))

	httpjson.NoContent(w)
}
