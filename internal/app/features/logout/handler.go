// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
	}
}

// HandleLogout handles POST /auth/logout. It always expires the cookie,
// even when the session could not be decoded. Bearer tokens are
// stateless and simply expire.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if actor, err := authz.CurrentActor(r); err == nil {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "logout audit")
		defer cancel()
		h.AuditLog.Logout(ctx, r, actor.UserID, actor.OrgID)
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		// Session decode failed; the client still gets a 204 and its
		// cookie is unusable anyway.
		h.Log.Warn("session clear failed during logout", zap.Error(err))
	}

	httpjson.NoContent(w)
}
