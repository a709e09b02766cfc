package profile

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.uber.org/zap"
)

type meResponse struct {
	User         *models.User        `json:"user"`
	Member       models.Member       `json:"member"`
	Organization models.Organization `json:"organization"`
}

// ServeMe handles GET /auth/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "me")
	defer cancel()

	user, err := h.users.GetByID(ctx, actor.UserID)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	member, err := h.members.GetByUser(ctx, actor.OrgID, actor.UserID)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	org, err := h.orgs.GetByID(ctx, actor.OrgID)
	if err != nil {
		h.Log.Error("organization lookup failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}

	httpjson.OK(w, meResponse{User: user, Member: member, Organization: org})
}
