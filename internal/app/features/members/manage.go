package members

import (
	"context"
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/policy/memberpolicy"
	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authutil"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/app/system/txn"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// target resolves the {id} member within the actor's organization.
func (h *Handler) target(ctx context.Context, r *http.Request, actor authz.Actor) (models.Member, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.Member{}, apperr.NotFound("member")
	}
	return h.members.GetByID(ctx, actor.OrgID, id)
}

// HandleChangeRole handles PATCH /organization/members/{id}/role.
func (h *Handler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in roleInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	in.Role = normalize.Role(in.Role)
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "change member role")
	defer cancel()

	m, err := h.target(ctx, r, actor)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := memberpolicy.CanChangeRole(actor, m, in.Role); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := h.members.UpdateRole(ctx, actor.OrgID, m.ID, in.Role); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.Updated(ctx, r, actor, audit.EntityMember, m.ID.Hex(), []string{"role"})

	m.Role = in.Role
	httpjson.OK(w, m)
}

// HandleResetPassword handles POST /organization/members/{id}/reset-password
// and returns the new generated password once.
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "reset member password")
	defer cancel()

	m, err := h.target(ctx, r, actor)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := memberpolicy.CanResetPassword(actor, m); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	password := authutil.GeneratePassword()
	hash, err := authutil.HashPassword(password)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := h.users.SetPasswordHash(ctx, m.UserID, hash); err != nil {
		h.Log.Error("reset password failed", zap.Error(err), zap.String("member_id", m.ID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.PasswordReset(ctx, r, actor, m.UserID)

	httpjson.OK(w, resetResponse{Password: password})
}

// HandleRemove handles DELETE /organization/members/{id}. The member's
// user account and workflow role seats go with it.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "remove member")
	defer cancel()

	m, err := h.target(ctx, r, actor)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := memberpolicy.CanRemoveMember(actor, m); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if _, err := h.members.Delete(ctx, actor.OrgID, m.ID); err != nil {
			return err
		}
		if err := h.roles.RemoveUser(ctx, actor.OrgID, m.UserID); err != nil {
			return err
		}
		_, err := h.users.Delete(ctx, m.UserID)
		return err
	})
	if err != nil {
		h.Log.Error("remove member failed", zap.Error(err), zap.String("member_id", m.ID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.Deleted(ctx, r, actor, audit.EntityMember, m.ID.Hex())

	httpjson.NoContent(w)
}
