// internal/app/features/settings/rules.go
package settings

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/policy/recordpolicy"
	automationrulestore "github.com/dalemusser/claimdesk/internal/app/store/automationrules"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/patch"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (in *ruleInput) canonicalize() {
	for _, p := range []**string{&in.ActivityType, &in.Category, &in.Priority} {
		if *p != nil {
			v := normalize.Enum(**p)
			*p = &v
		}
	}
	in.RoleID = normalize.OptionalText(in.RoleID)
}

// role checks that raw names a workflow role of orgID.
func (h *Handler) role(ctx context.Context, orgID primitive.ObjectID, raw string) (primitive.ObjectID, error) {
	id, _ := primitive.ObjectIDFromHex(raw)
	if _, err := h.roles.GetRole(ctx, orgID, id); err != nil {
		return primitive.NilObjectID, err
	}
	return id, nil
}

// ServeRules handles GET /settings/automation-rules.
func (h *Handler) ServeRules(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list automation rules")
	defer cancel()

	rules, err := h.rules.List(ctx, actor.OrgID)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, rules)
}

// HandleCreateRule handles POST /settings/automation-rules. activity_type
// and task_title are required; category, priority and is_active default
// to OTRO, MEDIA and true.
func (h *Handler) HandleCreateRule(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanEditWorkflow(actor); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in ruleInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	in.canonicalize()
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	activity := normalize.OptionalText(in.ActivityType)
	title := normalize.OptionalText(in.TaskTitle)
	if activity == nil || title == nil {
		httpjson.Fail(w, h.Log, apperr.Validation("Activity type and task title are required."))
		return
	}

	rule := models.AutomationRule{
		OrganizationID:  actor.OrgID,
		ActivityType:    *activity,
		TaskTitle:       *title,
		TaskDescription: normalize.OptionalText(in.TaskDescription),
		Category:        models.TaskCategoryOtro,
		Priority:        models.TaskPriorityMedia,
		DueInDays:       in.DueInDays,
		IsActive:        true,
		CreatedBy:       actor.UserID,
	}
	if v := normalize.OptionalText(in.Category); v != nil {
		rule.Category = *v
	}
	if v := normalize.OptionalText(in.Priority); v != nil {
		rule.Priority = *v
	}
	if in.IsActive != nil {
		rule.IsActive = *in.IsActive
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create automation rule")
	defer cancel()

	if in.RoleID != nil {
		id, err := h.role(ctx, actor.OrgID, *in.RoleID)
		if err != nil {
			httpjson.Fail(w, h.Log, err)
			return
		}
		rule.RoleID = &id
	}

	rule, err = h.rules.Create(ctx, rule)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.Created(w, rule)
}

// HandleUpdateRule handles PATCH /settings/automation-rules/{id}. An
// empty role_id detaches the rule from its role.
func (h *Handler) HandleUpdateRule(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanEditWorkflow(actor); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := pathID(r, automationrulestore.ErrNotFound)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in ruleInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	sentRole := in.RoleID != nil
	in.canonicalize()
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update automation rule")
	defer cancel()

	b := patch.New().
		Required("activity_type", "Activity type", in.ActivityType).
		Required("task_title", "Task title", in.TaskTitle).
		Text("task_description", in.TaskDescription).
		Required("category", "Category", in.Category).
		Required("priority", "Priority", in.Priority).
		Int("due_in_days", in.DueInDays).
		Bool("is_active", in.IsActive)
	switch {
	case !sentRole:
	case in.RoleID == nil:
		b.Unset("role_id")
	default:
		if rid, err := h.role(ctx, actor.OrgID, *in.RoleID); err != nil {
			b.Fail(err)
		} else {
			b.Set("role_id", rid)
		}
	}
	if b.Err() != nil {
		httpjson.Fail(w, h.Log, b.Err())
		return
	}

	var rule models.AutomationRule
	if b.Empty() {
		rule, err = h.rules.GetByID(ctx, actor.OrgID, id)
	} else {
		upd, uerr := b.Update(time.Now())
		if uerr != nil {
			httpjson.Fail(w, h.Log, uerr)
			return
		}
		rule, err = h.rules.Update(ctx, actor.OrgID, id, upd)
	}
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, rule)
}

// HandleDeleteRule handles DELETE /settings/automation-rules/{id}.
func (h *Handler) HandleDeleteRule(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanEditWorkflow(actor); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := pathID(r, automationrulestore.ErrNotFound)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete automation rule")
	defer cancel()

	n, err := h.rules.Delete(ctx, actor.OrgID, id)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if n == 0 {
		httpjson.Fail(w, h.Log, automationrulestore.ErrNotFound)
		return
	}
	httpjson.NoContent(w)
}
