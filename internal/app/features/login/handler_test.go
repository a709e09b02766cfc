package login_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/claimdesk/internal/app/features/login"
	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/ratelimit"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	db *mongo.Database
	sm *auth.SessionManager
	h  *login.Handler
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	sm := testutil.NewSessionManager(t)
	h := login.NewHandler(db, sm, testutil.NewAuditLogger(db), ratelimit.NewLoginLimiter(), zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme Adjusters")
	fx.CreateMember(ctx, org.ID, "admin@acme.internal", models.RoleAdmin, "correct-horse")
	return env{db: db, sm: sm, h: h}
}

func post(t *testing.T, handler http.HandlerFunc, body any) *testutil.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := testutil.NewRecorder()
	handler(rec, req)
	return rec
}

func auditCount(t *testing.T, db *mongo.Database, eventType string) int64 {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	n, err := audit.New(db).CountByFilter(ctx, audit.QueryFilter{EventType: eventType})
	if err != nil {
		t.Fatalf("count audit events: %v", err)
	}
	return n
}

func TestHandleLogin(t *testing.T) {
	e := setup(t)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantCode   string
		wantAudit  string
	}{
		{"success", map[string]string{"username": "Admin@Acme.internal", "password": "correct-horse"}, http.StatusOK, "", audit.EventLoginSuccess},
		{"wrong password", map[string]string{"username": "admin@acme.internal", "password": "battery-staple"}, http.StatusUnauthorized, httpjson.CodeUnauthorized, audit.EventLoginFailedWrongPassword},
		{"unknown user", map[string]string{"username": "ghost@acme.internal", "password": "whatever1"}, http.StatusUnauthorized, httpjson.CodeUnauthorized, audit.EventLoginFailedUserNotFound},
		{"missing password", map[string]string{"username": "admin@acme.internal"}, http.StatusBadRequest, httpjson.CodeBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, e.h.HandleLogin, tt.body)
			rec.AssertStatus(t, tt.wantStatus)
			if tt.wantCode != "" {
				rec.AssertErrorCode(t, tt.wantCode)
			}
			if tt.wantAudit != "" && auditCount(t, e.db, tt.wantAudit) == 0 {
				t.Errorf("expected an audit event %q", tt.wantAudit)
			}
		})
	}
}

func TestHandleLogin_SetsSessionCookie(t *testing.T) {
	e := setup(t)

	rec := post(t, e.h.HandleLogin, map[string]string{"username": "admin@acme.internal", "password": "correct-horse"})
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
		Role         string `json:"role"`
		Organization struct {
			Name string `json:"name"`
		} `json:"organization"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.Role != models.RoleAdmin || resp.User.Username != "admin@acme.internal" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Organization.Name != "Acme Adjusters" {
		t.Errorf("organization: got %q", resp.Organization.Name)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// The cookie authenticates a follow-up request.
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	var seen *auth.SessionUser
	e.sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), next)
	if seen == nil || seen.Role != models.RoleAdmin {
		t.Errorf("session user not restored from cookie: %+v", seen)
	}
}

func TestHandleLogin_RateLimited(t *testing.T) {
	e := setup(t)

	body := map[string]string{"username": "admin@acme.internal", "password": "nope-nope"}
	var last *testutil.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = post(t, e.h.HandleLogin, body)
	}
	last.AssertStatus(t, http.StatusTooManyRequests)
	last.AssertErrorCode(t, httpjson.CodeTooMany)
	if auditCount(t, e.db, audit.EventLoginFailedRateLimit) == 0 {
		t.Error("expected a rate limit audit event")
	}
}

func TestHandleToken(t *testing.T) {
	e := setup(t)

	rec := post(t, e.h.HandleToken, map[string]string{"username": "admin@acme.internal", "password": "correct-horse"})
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Token     string `json:"token"`
		TokenType string `json:"token_type"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.TokenType != "Bearer" || resp.Token == "" {
		t.Fatalf("unexpected token response %+v", resp)
	}

	u, err := e.sm.Tokens().Parse(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if u.LoginID != "admin@acme.internal" || u.Role != models.RoleAdmin {
		t.Errorf("token claims: %+v", u)
	}
}

func TestHandleToken_Disabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sm, err := auth.NewSessionManager(testutil.TestSessionKey, "", "", 0, false, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	h := login.NewHandler(db, sm, testutil.NewAuditLogger(db), nil, zap.NewNop())

	rec := post(t, h.HandleToken, map[string]string{"username": "a@b.internal", "password": "whatever1"})
	rec.AssertStatus(t, http.StatusServiceUnavailable)
}
