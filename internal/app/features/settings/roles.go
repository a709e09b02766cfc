// internal/app/features/settings/roles.go
package settings

import (
	"context"
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/policy/recordpolicy"
	workflowrolestore "github.com/dalemusser/claimdesk/internal/app/store/workflowroles"
	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/system/inputval"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/app/system/txn"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeRoles handles GET /settings/workflow-roles. Each role carries its
// members, primary first.
func (h *Handler) ServeRoles(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list workflow roles")
	defer cancel()

	roles, err := h.roles.ListRoles(ctx, actor.OrgID)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	byRole, err := h.roles.MembersByRole(ctx, actor.OrgID)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	out := make([]roleView, 0, len(roles))
	for _, role := range roles {
		ms := byRole[role.ID]
		if ms == nil {
			ms = []models.WorkflowRoleMember{}
		}
		out = append(out, roleView{WorkflowRole: role, Members: ms})
	}
	httpjson.OK(w, out)
}

// HandleCreateRole handles POST /settings/workflow-roles.
func (h *Handler) HandleCreateRole(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanEditWorkflow(actor); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in roleInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	name := normalize.OptionalText(in.Name)
	if name == nil {
		httpjson.Fail(w, h.Log, apperr.Validation("Name is required."))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create workflow role")
	defer cancel()

	role, err := h.roles.CreateRole(ctx, models.WorkflowRole{
		OrganizationID: actor.OrgID,
		Name:           *name,
		Description:    normalize.OptionalText(in.Description),
		CreatedBy:      actor.UserID,
	})
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.Created(w, roleView{WorkflowRole: role, Members: []models.WorkflowRoleMember{}})
}

// HandleUpdateRole handles PATCH /settings/workflow-roles/{id}.
func (h *Handler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanEditWorkflow(actor); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := pathID(r, workflowrolestore.ErrNotFound)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in roleInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if in.Name != nil && normalize.OptionalText(in.Name) == nil {
		httpjson.Fail(w, h.Log, apperr.Validation("Name is required."))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update workflow role")
	defer cancel()

	role, err := h.roles.UpdateRole(ctx, actor.OrgID, id, in.Name, in.Description)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, role)
}

// HandleDeleteRole handles DELETE /settings/workflow-roles/{id}. Rules
// routed through the role keep running and create unassigned tasks.
func (h *Handler) HandleDeleteRole(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanEditWorkflow(actor); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := pathID(r, workflowrolestore.ErrNotFound)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete workflow role")
	defer cancel()

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if err := h.roles.DeleteRole(ctx, actor.OrgID, id); err != nil {
			return err
		}
		_, err := h.rules.ClearRole(ctx, actor.OrgID, id)
		return err
	})
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	h.Log.Info("workflow role deleted", zap.String("org_id", actor.OrgID.Hex()), zap.String("role_id", id.Hex()))

	httpjson.NoContent(w)
}

// HandleReplaceMembers handles PUT /settings/workflow-roles/{id}/members.
// Every user must belong to the organization; at most one is primary.
func (h *Handler) HandleReplaceMembers(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.CurrentActor(r)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := recordpolicy.CanEditWorkflow(actor); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	id, err := pathID(r, workflowrolestore.ErrNotFound)
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	var in replaceMembersInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	if err := inputval.Validate(in).Err(); err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "replace workflow role members")
	defer cancel()

	members := make([]workflowrolestore.MemberInput, 0, len(in.Members))
	for _, m := range in.Members {
		uid, _ := primitive.ObjectIDFromHex(m.UserID)
		ok, err := h.members.IsMember(ctx, actor.OrgID, uid)
		if err != nil {
			httpjson.Fail(w, h.Log, err)
			return
		}
		if !ok {
			httpjson.Fail(w, h.Log, apperr.Validation("User %s is not a member of this organization.", m.UserID))
			return
		}
		members = append(members, workflowrolestore.MemberInput{UserID: uid, IsPrimary: m.IsPrimary})
	}

	var out []models.WorkflowRoleMember
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		out, err = h.roles.ReplaceMembers(ctx, actor.OrgID, id, members)
		return err
	})
	if err != nil {
		httpjson.Fail(w, h.Log, err)
		return
	}
	httpjson.OK(w, out)
}
