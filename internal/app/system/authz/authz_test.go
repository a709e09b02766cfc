package authz_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requestAs(role string) *http.Request {
	req := httptest.NewRequest("GET", "/test", nil)
	return auth.WithTestUser(req, &auth.SessionUser{
		ID:             primitive.NewObjectID().Hex(),
		Name:           "Test",
		Role:           role,
		OrganizationID: primitive.NewObjectID().Hex(),
	})
}

func TestUserCtx_NoUser(t *testing.T) {
	role, _, id, ok := authz.UserCtx(httptest.NewRequest("GET", "/test", nil))
	if ok || role != "" || !id.IsZero() {
		t.Errorf("got (%q, %v, %v), want empty", role, id, ok)
	}
}

func TestUserCtx_MalformedID_FailsClosed(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/test", nil), &auth.SessionUser{ID: "nope", Role: "ADMIN"})
	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected malformed id to be rejected")
	}
}

func TestUserCtx_UppercasesRole(t *testing.T) {
	role, _, _, ok := authz.UserCtx(requestAs("co_admin"))
	if !ok || role != "CO_ADMIN" {
		t.Errorf("got (%q, %v), want (CO_ADMIN, true)", role, ok)
	}
}

func TestRoleChecks(t *testing.T) {
	tests := []struct {
		role      string
		isAdmin   bool
		canManage bool
	}{
		{"ADMIN", true, true},
		{"CO_ADMIN", false, true},
		{"VENDEDOR", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := requestAs(tt.role)
			if got := authz.IsAdmin(req); got != tt.isAdmin {
				t.Errorf("IsAdmin = %v, want %v", got, tt.isAdmin)
			}
			if got := authz.CanManage(req); got != tt.canManage {
				t.Errorf("CanManage = %v, want %v", got, tt.canManage)
			}
			a, err := authz.CurrentActor(req)
			if err != nil {
				t.Fatalf("CurrentActor: %v", err)
			}
			if a.CanManage() != tt.canManage || a.IsAdmin() != tt.isAdmin {
				t.Errorf("actor checks disagree with request checks for %s", tt.role)
			}
		})
	}
}

func TestCurrentActor_NoOrg(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/test", nil), &auth.SessionUser{
		ID:   primitive.NewObjectID().Hex(),
		Role: "ADMIN",
	})
	_, err := authz.CurrentActor(req)
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("err = %v, want unauthorized", err)
	}
}

func TestHasAnyRole(t *testing.T) {
	req := requestAs("VENDEDOR")
	if !authz.HasAnyRole(req, "admin", " vendedor ") {
		t.Error("expected VENDEDOR to match case-insensitively")
	}
	if authz.HasRole(req, "ADMIN") {
		t.Error("VENDEDOR should not have ADMIN")
	}
	if authz.HasAnyRole(httptest.NewRequest("GET", "/", nil), "ADMIN") {
		t.Error("no user should have no role")
	}
}
