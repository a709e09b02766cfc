package profile

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authutil"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required" label:"Current password"`
	NewPassword     string `json:"new_password" validate:"required" label:"New password"`
}

// HandleChangePassword handles POST /auth/password.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in changePasswordInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := authutil.ValidatePassword(in.NewPassword); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if in.NewPassword == in.CurrentPassword {
		httpjson.Fail(w, h.Log, apperr.Validation("the new password must differ from the current one"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "change password")
	defer cancel()

	user, err := h.users.GetByID(ctx, actor.UserID)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if !authutil.CheckPassword(in.CurrentPassword, user.PasswordHash) {
		httpjson.Fail(w, h.Log, apperr.Validation("the current password is incorrect"))
		return
	}

	hash, err := authutil.HashPassword(in.NewPassword)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := h.users.SetPasswordHash(ctx, user.ID, hash); err != nil {
		h.Log.Error("set password failed", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.PasswordChanged(ctx, r, user.ID, actor.OrgID)

	httpjson.NoContent(w)
}
