// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the signed-in member acting on a request, with ids already
// parsed. Every organization-scoped query uses OrgID.
type Actor struct {
	UserID primitive.ObjectID
	OrgID  primitive.ObjectID
	Role   string
	Name   string
}

// UserCtx returns the user's role (uppercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "", "", NilObjectID, false, so ok=true always means a usable user id.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session: fail closed.
		return "", "", primitive.NilObjectID, false
	}
	return strings.ToUpper(user.Role), user.Name, userID, true
}

// UserOrgID returns the current user's organization ID.
// Returns NilObjectID if no user is signed in or the id is malformed.
func UserOrgID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || user.OrganizationID == "" {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(user.OrganizationID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// CurrentActor resolves the request's member. It fails with an
// unauthorized error when there is no user or the session lacks an
// organization.
func CurrentActor(r *http.Request) (Actor, error) {
	role, name, userID, ok := UserCtx(r)
	if !ok {
		return Actor{}, apperr.Unauthorized("sign in required")
	}
	orgID := UserOrgID(r)
	if orgID.IsZero() {
		return Actor{}, apperr.Unauthorized("no organization on session")
	}
	return Actor{UserID: userID, OrgID: orgID, Role: role, Name: name}, nil
}

// IsAdmin reports whether the current request's user is an organization ADMIN.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// CanManage reports whether the current user may delete records and edit
// workflow settings (ADMIN or CO_ADMIN).
func CanManage(r *http.Request) bool {
	return HasAnyRole(r, models.RoleAdmin, models.RoleCoAdmin)
}

// CanManage on an Actor mirrors the request form for code that already
// resolved the actor.
func (a Actor) CanManage() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleCoAdmin
}

// IsAdmin reports whether the actor is an ADMIN.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }
