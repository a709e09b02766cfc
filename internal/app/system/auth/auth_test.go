package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"go.uber.org/zap"
)

const testSecret = "test-jwt-secret-must-be-32-chars-long!!"

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func withTestUser(r *http.Request, role string) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:             "64b000000000000000000001",
		Name:           "Test User",
		LoginID:        "test@acme.internal",
		Role:           role,
		OrganizationID: "64b0000000000000000000aa",
	})
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)
	rec := httptest.NewRecorder()
	sm.RequireSignedIn(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/clients", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"unauthorized"`) {
		t.Errorf("expected unauthorized envelope, got %s", rec.Body.String())
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)
	rec := httptest.NewRecorder()
	req := withTestUser(httptest.NewRequest("GET", "/clients", nil), "VENDEDOR")
	sm.RequireSignedIn(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	sm := newTestSessionManager(t)

	tests := []struct {
		name    string
		allowed []string
		role    string // "" means no user
		want    int
	}{
		{"no user", []string{"ADMIN"}, "", http.StatusUnauthorized},
		{"wrong role", []string{"ADMIN"}, "VENDEDOR", http.StatusForbidden},
		{"correct role", []string{"ADMIN"}, "ADMIN", http.StatusOK},
		{"one of many", []string{"ADMIN", "CO_ADMIN"}, "CO_ADMIN", http.StatusOK},
		{"case insensitive", []string{"admin"}, "ADMIN", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("DELETE", "/clients/x", nil)
			if tt.role != "" {
				req = withTestUser(req, tt.role)
			}
			rec := httptest.NewRecorder()
			sm.RequireRole(tt.allowed...)(okHandler()).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := auth.CurrentUser(req); ok {
		t.Error("expected no user")
	}

	req = withTestUser(req, "ADMIN")
	u, ok := auth.CurrentUser(req)
	if !ok {
		t.Fatal("expected user")
	}
	if u.Role != "ADMIN" {
		t.Errorf("Role = %q, want ADMIN", u.Role)
	}
}

func TestSignIn_CookieRoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)

	signIn := httptest.NewRecorder()
	want := &auth.SessionUser{
		ID:             "64b000000000000000000001",
		Name:           "Ana Rivera",
		LoginID:        "admin@acme.internal",
		Role:           "ADMIN",
		OrganizationID: "64b0000000000000000000aa",
	}
	if err := sm.SignIn(signIn, httptest.NewRequest("POST", "/auth/login", nil), want); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := signIn.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	req := httptest.NewRequest("GET", "/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	var got *auth.SessionUser
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected user loaded from cookie")
	}
	if *got != *want {
		t.Errorf("got %+v, want %+v", *got, *want)
	}
}

func TestGetSession_ForeignKeyCookie(t *testing.T) {
	other, err := auth.NewSessionManager(strings.Repeat("x", 32), "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	signIn := httptest.NewRecorder()
	if err := other.SignIn(signIn, httptest.NewRequest("POST", "/auth/login", nil), &auth.SessionUser{
		ID:             "64b000000000000000000001",
		OrganizationID: "64b0000000000000000000aa",
		Role:           "ADMIN",
	}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	sm := newTestSessionManager(t)
	req := httptest.NewRequest("GET", "/auth/me", nil)
	for _, c := range signIn.Result().Cookies() {
		req.AddCookie(c)
	}

	sess, err := sm.GetSession(req)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if !sess.IsNew || len(sess.Values) != 0 {
		t.Errorf("expected a fresh session, got new=%v values=%v", sess.IsNew, sess.Values)
	}

	var got *auth.SessionUser
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), req)
	if got != nil {
		t.Errorf("foreign cookie authenticated %+v", got)
	}

	// Signing in over the stale cookie replaces it.
	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, req, &auth.SessionUser{ID: "64b000000000000000000002", OrganizationID: "64b0000000000000000000aa"}); err != nil {
		t.Errorf("SignIn over stale cookie: %v", err)
	}
}

type stubFetcher struct{ user *auth.SessionUser }

func (s stubFetcher) FetchUser(ctx context.Context, userID, orgID string) *auth.SessionUser {
	return s.user
}

func TestLoadSessionUser_BearerToken(t *testing.T) {
	sm := newTestSessionManager(t)
	ts, err := auth.NewTokenService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	sm.SetTokenService(ts)

	tok, _, err := ts.Issue(auth.SessionUser{ID: "64b000000000000000000001", OrganizationID: "64b0000000000000000000aa", Role: "VENDEDOR"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var got *auth.SessionUser
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))
	req := httptest.NewRequest("GET", "/clients", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.Role != "VENDEDOR" {
		t.Fatalf("expected VENDEDOR from token, got %+v", got)
	}

	// A fetcher that no longer finds the member revokes access.
	sm.SetUserFetcher(stubFetcher{user: nil})
	got = nil
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != nil {
		t.Errorf("expected no user after membership removal, got %+v", got)
	}
}

func TestTokenService_RejectsTampered(t *testing.T) {
	ts, err := auth.NewTokenService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	other, err := auth.NewTokenService("another-secret-that-is-32-chars-long!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	tok, _, err := other.Issue(auth.SessionUser{ID: "u", OrganizationID: "o", Role: "ADMIN"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := ts.Parse(tok); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}
	if _, err := ts.Parse("not.a.token"); err == nil {
		t.Error("expected garbage to be rejected")
	}
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	if _, err := auth.NewTokenService("short", time.Hour); err == nil {
		t.Error("expected error for short secret")
	}
}
