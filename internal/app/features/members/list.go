package members

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/policy/memberpolicy"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/paging"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList handles GET /organization/members?before=&after=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if !memberpolicy.CanListMembers(actor) {
		httpjson.Fail(w, h.Log, apperr.Forbidden("not a member of an organization"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list members")
	defer cancel()

	before, after := paging.Cursors(r)
	page, err := h.members.ListPage(ctx, actor.OrgID, before, after)
	if err != nil {
		h.Log.Error("list members failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	count, err := h.members.Count(ctx, actor.OrgID)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	org, err := h.orgs.GetByID(ctx, actor.OrgID)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	views, err := h.views(r, page.Items)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	httpjson.OK(w, listResponse{
		Items:      views,
		Count:      count,
		MaxMembers: org.MaxMembers,
		PrevCursor: page.PrevCursor,
		NextCursor: page.NextCursor,
	})
}

// views joins members with their users' names and sign-in times.
func (h *Handler) views(r *http.Request, ms []models.Member) ([]memberView, error) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "member users")
	defer cancel()

	ids := make([]primitive.ObjectID, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.UserID)
	}
	users, err := h.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]memberView, 0, len(ms))
	for _, m := range ms {
		v := memberView{Member: m}
		if u, ok := users[m.UserID]; ok {
			v.Name = u.FullName
			v.Status = u.Status
			v.LastSignedIn = u.LastSignedIn
		}
		out = append(out, v)
	}
	return out, nil
}
