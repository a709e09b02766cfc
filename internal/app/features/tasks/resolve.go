// internal/app/features/tasks/resolve.go
package tasks

import (
	"context"
	"strings"

	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/workflow/notify"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// canonicalize upper-cases the enumerated fields before validation.
func (in *taskInput) canonicalize() {
	for _, p := range []**string{&in.Category, &in.Priority, &in.Status} {
		if *p != nil {
			v := normalize.Enum(**p)
			*p = &v
		}
	}
}

// checkClient verifies a client reference belongs to orgID.
func (h *Handler) checkClient(ctx context.Context, orgID primitive.ObjectID, id string) error {
	ok, err := h.clients.Exists(ctx, orgID, id)
	if err != nil {
		return err
	}
	if !ok {
		return clientstore.ErrNotFound
	}
	return nil
}

// assignee parses an assignee id and checks the user is a member of
// orgID.
func (h *Handler) assignee(ctx context.Context, orgID primitive.ObjectID, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Assignee must be a member id.")
	}
	ok, err := h.members.IsMember(ctx, orgID, id)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if !ok {
		return primitive.NilObjectID, apperr.Validation("Assignee is not a member of this organization.")
	}
	return id, nil
}

// notifyAssignee tells the assignee about a task someone else gave them.
func (h *Handler) notifyAssignee(ctx context.Context, actor authz.Actor, t models.Task) {
	if h.Notify == nil || t.AssignedTo == nil || *t.AssignedTo == actor.UserID {
		return
	}
	msg := notify.Message{
		Type:  models.NotifyTaskAssigned,
		Title: "Nueva tarea asignada",
	}.WithBody(t.Title).Entity(audit.EntityTask, t.ID.Hex())
	if _, err := h.Notify.NotifyUsers(ctx, t.OrganizationID, []primitive.ObjectID{*t.AssignedTo}, msg); err != nil {
		h.Log.Warn("notify task assignee failed",
			zap.Error(err),
			zap.String("task_id", t.ID.Hex()),
			zap.String("assignee", t.AssignedTo.Hex()))
	}
}
