package login

import (
	"errors"
	"net/http"
	"time"

	memberstore "github.com/dalemusser/claimdesk/internal/app/store/members"
	userstore "github.com/dalemusser/claimdesk/internal/app/store/users"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/dalemusser/claimdesk/internal/app/system/authutil"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.uber.org/zap"
)

// Same message for unknown usernames and wrong passwords so the endpoint
// does not reveal which usernames exist.
const badCredentials = "invalid username or password"

// signedIn is the outcome of a successful credential check.
type signedIn struct {
	user   *models.User
	member models.Member
	sess   *auth.SessionUser
}

// HandleLogin handles POST /auth/login: checks credentials and sets the
// session cookie.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	in, ok := h.authenticate(w, r, "session")
	if !ok {
		return
	}

	if err := h.SessionMgr.SignIn(w, r, in.sess); err != nil {
		h.Log.Error("session save failed", zap.Error(err), zap.String("user_id", in.sess.ID))
		httpjson.Fail(w, h.Log, err)
		return
	}

	resp := loginResponse{
		User: userView{
			ID:       in.user.ID.Hex(),
			Name:     in.user.FullName,
			Username: in.member.Username,
			Email:    in.user.Email,
		},
		Role: in.member.Role,
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login org lookup")
	defer cancel()
	if org, err := h.orgs.GetByID(ctx, in.member.OrganizationID); err == nil {
		resp.Organization = &org
	} else {
		h.Log.Warn("organization lookup after login failed", zap.Error(err),
			zap.String("org_id", in.member.OrganizationID.Hex()))
	}

	httpjson.OK(w, resp)
}

// authenticate decodes and checks credentials. On failure it writes the
// response and returns false. Every failure is audited.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, method string) (signedIn, bool) {
	var in credentials
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return signedIn{}, false
	}
	in.Username = normalize.Username(in.Username)
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return signedIn{}, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	if allowed, msg := h.Limiter.Check(r, in.Username); !allowed {
		h.AuditLog.LoginFailedRateLimit(ctx, r, in.Username, "login")
		httpjson.Error(w, http.StatusTooManyRequests, httpjson.CodeTooMany, msg)
		return signedIn{}, false
	}

	member, err := h.members.GetByUsername(ctx, in.Username)
	if errors.Is(err, memberstore.ErrNotFound) {
		h.AuditLog.LoginFailedUserNotFound(ctx, r, in.Username)
		httpjson.Fail(w, h.Log, apperr.Unauthorized(badCredentials))
		return signedIn{}, false
	}
	if err != nil {
		h.Log.Error("member lookup failed", zap.Error(err))
		httpjson.Fail(w, h.Log, err)
		return signedIn{}, false
	}

	user, err := h.users.GetByID(ctx, member.UserID)
	if errors.Is(err, userstore.ErrNotFound) {
		h.AuditLog.LoginFailedUserNotFound(ctx, r, in.Username)
		httpjson.Fail(w, h.Log, apperr.Unauthorized(badCredentials))
		return signedIn{}, false
	}
	if err != nil {
		h.Log.Error("user lookup failed", zap.Error(err), zap.String("user_id", member.UserID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return signedIn{}, false
	}

	if normalize.Status(user.Status) == userstore.StatusDisabled {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, user.ID, member.OrganizationID, member.Username)
		httpjson.Fail(w, h.Log, apperr.Forbidden("this account is disabled"))
		return signedIn{}, false
	}

	if !authutil.CheckPassword(in.Password, user.PasswordHash) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, user.ID, member.OrganizationID, member.Username)
		httpjson.Fail(w, h.Log, apperr.Unauthorized(badCredentials))
		return signedIn{}, false
	}

	h.Limiter.ResetUser(in.Username)
	if err := h.users.TouchSignedIn(ctx, user.ID, time.Now()); err != nil {
		h.Log.Warn("record sign-in time failed", zap.Error(err), zap.String("user_id", user.ID.Hex()))
	}
	h.AuditLog.LoginSuccess(ctx, r, user.ID, member.OrganizationID, member.Username, method)

	return signedIn{
		user:   user,
		member: member,
		sess: &auth.SessionUser{
			ID:             user.ID.Hex(),
			Name:           user.FullName,
			LoginID:        member.Username,
			Role:           member.Role,
			OrganizationID: member.OrganizationID.Hex(),
		},
	}, true
}
