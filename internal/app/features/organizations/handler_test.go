package organizations_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/claimdesk/internal/app/features/organizations"
	memberstore "github.com/dalemusser/claimdesk/internal/app/store/members"
	userstore "github.com/dalemusser/claimdesk/internal/app/store/users"
	"github.com/dalemusser/claimdesk/internal/app/system/authutil"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.uber.org/zap"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Adjusters", "acme-adjusters"},
		{"  Ajustadores Públicos de P.R. ", "ajustadores-publicos-de-p-r"},
		{"A&B", "a-b"},
		{"***", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := organizations.Slug(tt.in); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHandleOnboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := organizations.NewHandler(db, testutil.NewAuditLogger(db), zap.NewNop())

	body := map[string]any{"name": "Acme Adjusters", "business_type": "public_adjuster", "member_count": 3}
	rec := testutil.NewRecorder()
	h.HandleOnboard(rec, testutil.NewJSONRequest(t, http.MethodPost, "/organizations", body, testutil.TestUser{}))
	rec.AssertStatus(t, http.StatusCreated)

	var resp struct {
		Organization   models.Organization        `json:"organization"`
		GeneratedUsers []organizations.Credential `json:"generated_users"`
	}
	rec.DecodeJSON(t, &resp)

	if resp.Organization.Slug != "acme-adjusters" {
		t.Errorf("slug: got %q", resp.Organization.Slug)
	}
	wantUsers := []struct{ username, role string }{
		{"admin@acme-adjusters.internal", models.RoleAdmin},
		{"usuario1@acme-adjusters.internal", models.RoleCoAdmin},
		{"usuario2@acme-adjusters.internal", models.RoleVendedor},
	}
	if len(resp.GeneratedUsers) != len(wantUsers) {
		t.Fatalf("generated users: got %d, want %d", len(resp.GeneratedUsers), len(wantUsers))
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	members := memberstore.New(db)
	users := userstore.New(db)
	for i, w := range wantUsers {
		got := resp.GeneratedUsers[i]
		if got.Username != w.username || got.Role != w.role {
			t.Errorf("user %d: got %s/%s, want %s/%s", i, got.Username, got.Role, w.username, w.role)
		}
		m, err := members.GetByUsername(ctx, got.Username)
		if err != nil {
			t.Fatalf("member %s not stored: %v", got.Username, err)
		}
		if m.OrganizationID != resp.Organization.ID || m.Role != w.role {
			t.Errorf("member %s stored as %+v", got.Username, m)
		}
		u, err := users.GetByID(ctx, m.UserID)
		if err != nil {
			t.Fatal(err)
		}
		if !authutil.CheckPassword(got.Password, u.PasswordHash) {
			t.Errorf("returned password for %s does not match the stored hash", got.Username)
		}
		if i == 0 && resp.Organization.OwnerID != u.ID {
			t.Error("admin should own the organization")
		}
	}

	// Same name again collides on the slug.
	rec = testutil.NewRecorder()
	h.HandleOnboard(rec, testutil.NewJSONRequest(t, http.MethodPost, "/organizations", body, testutil.TestUser{}))
	rec.AssertStatus(t, http.StatusConflict)
}

func TestHandleOnboard_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := organizations.NewHandler(db, testutil.NewAuditLogger(db), zap.NewNop())

	tests := []struct {
		name string
		body map[string]any
	}{
		{"too many members", map[string]any{"name": "Acme", "business_type": "x", "member_count": 21}},
		{"no members", map[string]any{"name": "Acme", "business_type": "x", "member_count": 0}},
		{"blank name", map[string]any{"name": "  ", "business_type": "x", "member_count": 1}},
		{"symbols only", map[string]any{"name": "***", "business_type": "x", "member_count": 1}},
		{"bad time zone", map[string]any{"name": "Acme", "business_type": "x", "member_count": 1, "time_zone": "Mars/Olympus"}},
		{"unknown field", map[string]any{"name": "Acme", "business_type": "x", "member_count": 1, "plan": "gold"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleOnboard(rec, testutil.NewJSONRequest(t, http.MethodPost, "/organizations", tt.body, testutil.TestUser{}))
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertErrorCode(t, httpjson.CodeBadRequest)
		})
	}
}

func TestServeCurrentAndUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := organizations.NewHandler(db, testutil.NewAuditLogger(db), zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := testutil.NewFixtures(t, db).CreateOrganization(ctx, "Acme Adjusters")
	admin := testutil.AdminUser(org.ID)

	rec := testutil.NewRecorder()
	h.ServeCurrent(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/organization", admin))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"Acme Adjusters"`)

	rec = testutil.NewRecorder()
	h.HandleUpdate(rec, testutil.NewJSONRequest(t, http.MethodPatch, "/organization",
		map[string]any{"name": "Acme Public Adjusters", "time_zone": "America/New_York"}, admin))
	rec.AssertStatus(t, http.StatusOK)

	var got models.Organization
	rec.DecodeJSON(t, &got)
	if got.Name != "Acme Public Adjusters" || got.TimeZone != "America/New_York" {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Slug != org.Slug {
		t.Errorf("slug changed: %q -> %q", org.Slug, got.Slug)
	}
}
