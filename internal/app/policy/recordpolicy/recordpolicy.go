// Package recordpolicy decides who may destroy organization records and
// who may change workflow settings.
//
// Authorization rules:
//   - Every member can create and edit clients, activity logs, tasks,
//     events, documents and construction projects
//   - Only ADMIN and CO_ADMIN can delete them
//   - Only ADMIN and CO_ADMIN can change custom claim statuses, workflow
//     roles and automation rules
//   - Only ADMIN can read the audit log
package recordpolicy

import (
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
)

// CanDelete checks that the actor may delete a record of the given kind.
func CanDelete(a authz.Actor, what string) error {
	if !a.CanManage() {
		return apperr.Forbidden("only admins and co-admins can delete " + what)
	}
	return nil
}

// CanEditWorkflow checks that the actor may change workflow settings.
func CanEditWorkflow(a authz.Actor) error {
	if !a.CanManage() {
		return apperr.Forbidden("only admins and co-admins can change workflow settings")
	}
	return nil
}

// CanReadAudit checks that the actor may read the audit log.
func CanReadAudit(a authz.Actor) error {
	if !a.IsAdmin() {
		return apperr.Forbidden("only admins can read the audit log")
	}
	return nil
}
