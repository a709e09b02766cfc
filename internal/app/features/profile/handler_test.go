package profile_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/claimdesk/internal/app/features/profile"
	userstore "github.com/dalemusser/claimdesk/internal/app/store/users"
	"github.com/dalemusser/claimdesk/internal/app/system/authutil"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.uber.org/zap"
)

func TestServeMe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := profile.NewHandler(db, testutil.NewAuditLogger(db), zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme Adjusters")
	u, m := fx.CreateMember(ctx, org.ID, "usuario2@acme.internal", models.RoleVendedor, "secret-pass")

	rec := testutil.NewRecorder()
	h.ServeMe(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/auth/me", testutil.MemberUser(u, m)))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Member struct {
			Role     string `json:"role"`
			Username string `json:"username"`
		} `json:"member"`
		Organization struct {
			Name string `json:"name"`
		} `json:"organization"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.Member.Role != models.RoleVendedor || resp.Member.Username != "usuario2@acme.internal" {
		t.Errorf("member: %+v", resp.Member)
	}
	if resp.Organization.Name != "Acme Adjusters" {
		t.Errorf("organization: %q", resp.Organization.Name)
	}
	rec.AssertContains(t, `"full_name"`)
	if strings.Contains(rec.Body.String(), "$2a$") {
		t.Error("password hash must not be serialized")
	}
}

func TestHandleChangePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := profile.NewHandler(db, testutil.NewAuditLogger(db), zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme Adjusters")
	u, m := fx.CreateMember(ctx, org.ID, "admin@acme.internal", models.RoleAdmin, "old-password")
	user := testutil.MemberUser(u, m)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{"too short", map[string]string{"current_password": "old-password", "new_password": "short"}, http.StatusBadRequest},
		{"wrong current", map[string]string{"current_password": "guess-guess", "new_password": "brand-new-pass"}, http.StatusBadRequest},
		{"same as current", map[string]string{"current_password": "old-password", "new_password": "old-password"}, http.StatusBadRequest},
		{"changed", map[string]string{"current_password": "old-password", "new_password": "brand-new-pass"}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleChangePassword(rec, testutil.NewJSONRequest(t, http.MethodPost, "/auth/password", tt.body, user))
			rec.AssertStatus(t, tt.wantStatus)
			if tt.wantStatus == http.StatusBadRequest {
				rec.AssertErrorCode(t, httpjson.CodeBadRequest)
			}
		})
	}

	stored, err := userstore.New(db).GetByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !authutil.CheckPassword("brand-new-pass", stored.PasswordHash) {
		t.Error("new password should be stored")
	}
}
