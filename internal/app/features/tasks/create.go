// internal/app/features/tasks/create.go
package tasks

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/patch"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /tasks. Category defaults to OTRO and
// priority to MEDIA.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in taskInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	in.canonicalize()
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	title := normalize.OptionalText(in.Title)
	if title == nil {
		httpjson.Fail(w, h.Log, apperr.Validation("Title is required."))
		return
	}
	due, err := patch.DatePtr("Due date", in.DueDate)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	t := models.Task{
		OrganizationID: actor.OrgID,
		ClientID:       normalize.OptionalText(in.ClientID),
		Title:          *title,
		Description:    htmlsanitize.CleanPtr(normalize.OptionalText(in.Description)),
		Category:       models.TaskCategoryOtro,
		Priority:       models.TaskPriorityMedia,
		DueDate:        due,
		CreatedBy:      actor.UserID,
		UpdatedBy:      actor.UserID,
	}
	if v := normalize.OptionalText(in.Category); v != nil {
		t.Category = *v
	}
	if v := normalize.OptionalText(in.Priority); v != nil {
		t.Priority = *v
	}
	if v := normalize.OptionalText(in.Status); v != nil {
		t.Status = *v
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create task")
	defer cancel()

	if t.ClientID != nil {
		if err := h.checkClient(ctx, actor.OrgID, *t.ClientID); err != nil {
			httpjson.Fail(w, h.Log, err)
			return
		}
	}
	if v := normalize.OptionalText(in.AssignedTo); v != nil {
		uid, err := h.assignee(ctx, actor.OrgID, *v)
		if err != nil {
			httpjson.Fail(w, h.Log, err)
			return
		}
		t.AssignedTo = &uid
	}

	t, err = h.tasks.Create(ctx, t)
	if err != nil {
		h.Log.Error("create task failed", zap.Error(err), zap.String("org_id", actor.OrgID.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.Created(ctx, r, actor, audit.EntityTask, t.ID.Hex())
	h.notifyAssignee(ctx, actor, t)

	httpjson.Created(w, t)
}
