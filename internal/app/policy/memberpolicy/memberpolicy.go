// Package memberpolicy provides authorization policies for member management.
//
// Authorization rules:
//   - Any member can list the members of their own organization
//   - Only an ADMIN can add members, change roles, reset passwords or remove members
//   - An ADMIN cannot remove themselves or demote themselves
//   - Nobody can act on a member of another organization
package memberpolicy

import (
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/domain/models"
)

// CanListMembers reports whether the actor may list their organization's members.
func CanListMembers(a authz.Actor) bool {
	return !a.OrgID.IsZero()
}

// CanAddMember checks that the actor may add a member to their organization.
func CanAddMember(a authz.Actor) error {
	if !a.IsAdmin() {
		return apperr.Forbidden("only an organization admin can manage members")
	}
	return nil
}

// CanChangeRole checks that the actor may give target the role newRole.
func CanChangeRole(a authz.Actor, target models.Member, newRole string) error {
	if err := sameOrgAdmin(a, target); err != nil {
		return err
	}
	if !models.IsValidRole(newRole) {
		return apperr.Validation("role must be one of ADMIN, CO_ADMIN, VENDEDOR")
	}
	if target.UserID == a.UserID && newRole != models.RoleAdmin {
		return apperr.Validation("you cannot remove your own admin role")
	}
	return nil
}

// CanResetPassword checks that the actor may reset target's password.
func CanResetPassword(a authz.Actor, target models.Member) error {
	return sameOrgAdmin(a, target)
}

// CanRemoveMember checks that the actor may remove target.
func CanRemoveMember(a authz.Actor, target models.Member) error {
	if err := sameOrgAdmin(a, target); err != nil {
		return err
	}
	if target.UserID == a.UserID {
		return apperr.Validation("you cannot remove yourself")
	}
	return nil
}

func sameOrgAdmin(a authz.Actor, target models.Member) error {
	if target.OrganizationID != a.OrgID {
		// Do not reveal members of other organizations.
		return apperr.NotFound("member")
	}
	if !a.IsAdmin() {
		return apperr.Forbidden("only an organization admin can manage members")
	}
	return nil
}
