package login

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// HandleToken handles POST /auth/token: the same credential check as
// HandleLogin, answered with a signed bearer token instead of a cookie.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	tokens := h.SessionMgr.Tokens()
	if tokens == nil {
		httpjson.Error(w, http.StatusServiceUnavailable, httpjson.CodeUnavailable, "API tokens are not enabled")
		return
	}

	in, ok := h.authenticate(w, r, "token")
	if !ok {
		return
	}

	raw, exp, err := tokens.Issue(*in.sess)
	if err != nil {
		h.Log.Error("issue token failed", zap.Error(err), zap.String("user_id", in.sess.ID))
		httpjson.Fail(w, h.Log, err)
		return
	}

	httpjson.OK(w, tokenResponse{
		Token:     raw,
		TokenType: "Bearer",
		ExpiresAt: exp,
		Role:      in.member.Role,
	})
}
