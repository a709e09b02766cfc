// internal/app/features/tasks/update.go
package tasks

import (
	"net/http"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/policy/recordpolicy"
	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	taskstore "github.com/dalemusser/claimdesk/internal/app/store/tasks"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/patch"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.uber.org/zap"
)

var taskFields = []string{"client_id", "title", "description", "category", "priority", "status", "completed_at", "assigned_to", "due_date"}

// HandleUpdate handles PATCH /tasks/{id}. Moving a task to COMPLETADA
// stamps completed_at; moving it out of COMPLETADA clears it.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := taskID(r)
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update task")
	defer cancel()

	cur, err := h.tasks.GetByID(ctx, actor.OrgID, id)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	now := time.Now().UTC()
	b := patch.New().
		Required("title", "Title", in.Title).
		Note("description", in.Description).
		Required("category", "Category", in.Category).
		Required("priority", "Priority", in.Priority).
		Required("status", "Status", in.Status).
		Date("due_date", "Due date", in.DueDate)

	if in.Status != nil {
		next := normalize.Enum(*in.Status)
		switch {
		case next == models.TaskStatusCompletada && cur.Status != models.TaskStatusCompletada:
			b.Set("completed_at", now)
		case next != models.TaskStatusCompletada && cur.Status == models.TaskStatusCompletada:
			b.Unset("completed_at")
		}
	}

	if in.ClientID != nil {
		if v := normalize.OptionalText(in.ClientID); v == nil {
			b.Unset("client_id")
		} else if err := h.checkClient(ctx, actor.OrgID, *v); err != nil {
			b.Fail(err)
		} else {
			b.Set("client_id", *v)
		}
	}

	reassigned := false
	if in.AssignedTo != nil {
		if v := normalize.OptionalText(in.AssignedTo); v == nil {
			b.Unset("assigned_to")
		} else if uid, err := h.assignee(ctx, actor.OrgID, *v); err != nil {
			b.Fail(err)
		} else {
			b.Set("assigned_to", uid)
			reassigned = cur.AssignedTo == nil || *cur.AssignedTo != uid
		}
	}

	if b.Err() != nil {
		httpjson.Fail(w, h.Log, b.Err())
		return
	}
	if b.Empty() {
		httpjson.OK(w, cur)
		return
	}
	var fields []string
	for _, f := range taskFields {
		if b.Has(f) {
			fields = append(fields, f)
		}
	}
	b.Set("updated_by", actor.UserID)

	upd, err := b.Update(now)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	t, err := h.tasks.Update(ctx, actor.OrgID, id, upd)
	if err != nil {
		h.Log.Error("update task failed", zap.Error(err), zap.String("task_id", id.Hex()))
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.AuditLog.Updated(ctx, r, actor, audit.EntityTask, t.ID.Hex(), fields)
	if reassigned {
		h.notifyAssignee(ctx, actor, t)
	}

	httpjson.OK(w, t)
}

// HandleDelete handles DELETE /tasks/{id} (ADMIN, CO_ADMIN).
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanDelete(actor, "tasks"); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := taskID(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete task")
	defer cancel()

	n, err := h.tasks.Delete(ctx, actor.OrgID, id)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if n == 0 {
		httpjson.Fail(w, h.Log, taskstore.ErrNotFound)
		return
	}
	h.AuditLog.Deleted(ctx, r, actor, audit.EntityTask, id.Hex())

	httpjson.NoContent(w)
}
