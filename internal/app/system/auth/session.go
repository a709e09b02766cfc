// internal/app/system/auth/session.go
package auth

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) of the user record
//   - LoginID / loginID / login_id: The username the member types to sign in

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	orgIDKey  = "organization_id"
	nameKey   = "user_name"
	loginKey  = "login_id"
	roleKey   = "user_role"
)

// SessionUser is the signed-in member injected into the request context.
// Role is the member's role in OrganizationID.
type SessionUser struct {
	ID             string
	Name           string
	LoginID        string
	Role           string
	OrganizationID string
}

// UserFetcher reloads a user on every request so role changes and removed
// memberships take effect immediately. It returns nil when the user or the
// membership no longer exists.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID, orgID string) *SessionUser
}

// SessionManager authenticates requests from a cookie session or a bearer
// token and guards routes by role.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	tokens  *TokenService
	log     *zap.Logger
}

// NewSessionManager builds a cookie store signed with key. In production
// (secure=true) cookies are Secure and SameSite=None; otherwise Lax so they
// work over http://localhost.
func NewSessionManager(key, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if key == "" {
		return nil, fmt.Errorf("session key is empty; provide at least 32 random chars")
	}
	if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(key)))
	}
	if name == "" {
		name = "claimdesk-session"
	}

	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetUserFetcher installs the per-request user reload.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// SetTokenService enables bearer-token authentication.
func (sm *SessionManager) SetTokenService(ts *TokenService) { sm.tokens = ts }

// Tokens returns the bearer token service, or nil.
func (sm *SessionManager) Tokens() *TokenService { return sm.tokens }

// GetSession returns the request's session. A cookie signed with an old
// key yields a fresh session rather than an error.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	sess, err := sm.store.Get(r, sm.name)
	var se securecookie.Error
	if err != nil && errors.As(err, &se) && se.IsDecode() {
		sm.log.Debug("discarding undecodable session cookie", zap.Error(err))
		return sess, nil
	}
	return sess, err
}

// SignIn stores u in the session cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		return err
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[orgIDKey] = u.OrganizationID
	sess.Values[nameKey] = u.Name
	sess.Values[loginKey] = u.LoginID
	sess.Values[roleKey] = u.Role
	return sess.Save(r, w)
}

// SignOut expires the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		return err
	}
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadSessionUser injects the current user into the request context when
// the request carries a valid bearer token or session cookie.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := sm.identify(r); u != nil {
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

func (sm *SessionManager) identify(r *http.Request) *SessionUser {
	var u *SessionUser

	if raw, ok := bearerToken(r); ok {
		if sm.tokens == nil {
			return nil
		}
		claimed, err := sm.tokens.Parse(raw)
		if err != nil {
			sm.log.Debug("rejected bearer token", zap.Error(err))
			return nil
		}
		u = claimed
	} else {
		sess, err := sm.GetSession(r)
		if err != nil {
			return nil
		}
		if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
			return nil
		}
		u = &SessionUser{
			ID:             getString(sess, userIDKey),
			OrganizationID: getString(sess, orgIDKey),
			Name:           getString(sess, nameKey),
			LoginID:        getString(sess, loginKey),
			Role:           getString(sess, roleKey),
		}
	}

	if u.ID == "" || u.OrganizationID == "" {
		return nil
	}
	if sm.fetcher != nil {
		return sm.fetcher.FetchUser(r.Context(), u.ID, u.OrganizationID)
	}
	return u
}

// RequireSignedIn rejects requests without a user with 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			httpjson.Error(w, http.StatusUnauthorized, httpjson.CodeUnauthorized, "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects requests without a user (401) or whose role is not
// one of allowed (403). Roles compare case-insensitively.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToUpper(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				httpjson.Error(w, http.StatusUnauthorized, httpjson.CodeUnauthorized, "sign in required")
				return
			}
			if _, has := set[strings.ToUpper(u.Role)]; !has {
				httpjson.Error(w, http.StatusForbidden, httpjson.CodeForbidden, "your role cannot perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser injects u directly, bypassing sessions. For tests.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}


func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	scheme, tok, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
		return "", false
	}
	return strings.TrimSpace(tok), true
}
