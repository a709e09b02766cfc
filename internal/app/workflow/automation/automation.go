// Package automation turns logged activities into follow-up tasks using the
// organization's automation rules.
package automation

import (
	"context"
	"fmt"
	"time"

	automationrulestore "github.com/dalemusser/claimdesk/internal/app/store/automationrules"
	taskstore "github.com/dalemusser/claimdesk/internal/app/store/tasks"
	workflowrolestore "github.com/dalemusser/claimdesk/internal/app/store/workflowroles"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/txn"
	"github.com/dalemusser/claimdesk/internal/app/workflow/notify"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Engine applies automation rules. It is safe for concurrent use.
type Engine struct {
	db     *mongo.Database
	rules  *automationrulestore.Store
	roles  *workflowrolestore.Store
	tasks  *taskstore.Store
	notify *notify.Dispatcher
	log    *zap.Logger
	now    func() time.Time
}

func New(db *mongo.Database, notifier *notify.Dispatcher, log *zap.Logger) *Engine {
	return &Engine{
		db:     db,
		rules:  automationrulestore.New(db),
		roles:  workflowrolestore.New(db),
		tasks:  taskstore.New(db),
		notify: notifier,
		log:    log,
		now:    time.Now,
	}
}

// OnActivityCreated creates one task per active rule matching the
// activity's type, in rule creation order. Activities without a client
// trigger nothing. The tasks are written in one transaction when the
// deployment supports it.
func (e *Engine) OnActivityCreated(ctx context.Context, a models.ActivityLog, actor authz.Actor) ([]models.Task, error) {
	if a.ClientID == nil || *a.ClientID == "" {
		return []models.Task{}, nil
	}

	rules, err := e.rules.ActiveFor(ctx, a.OrganizationID, a.ActivityType)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	if len(rules) == 0 {
		return []models.Task{}, nil
	}

	now := e.now().UTC()
	drafts := make([]models.Task, 0, len(rules))
	assignees := map[primitive.ObjectID]*primitive.ObjectID{}
	for _, r := range rules {
		var assignee *primitive.ObjectID
		if r.RoleID != nil {
			cached, ok := assignees[*r.RoleID]
			if !ok {
				cached, err = e.roles.ResolveAssignee(ctx, a.OrganizationID, *r.RoleID)
				if err != nil {
					return nil, fmt.Errorf("resolve assignee for rule %s: %w", r.ID.Hex(), err)
				}
				assignees[*r.RoleID] = cached
			}
			assignee = cached
		}
		drafts = append(drafts, Draft(r, a, assignee, actor.UserID, now))
	}

	var created []models.Task
	err = txn.Run(ctx, e.db, e.log, func(ctx context.Context) error {
		created = created[:0]
		for _, d := range drafts {
			t, err := e.tasks.Create(ctx, d)
			if err != nil {
				return fmt.Errorf("create task for rule %s: %w", d.AutomationRuleID.Hex(), err)
			}
			created = append(created, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("automation created tasks",
		zap.String("org_id", a.OrganizationID.Hex()),
		zap.String("client_id", *a.ClientID),
		zap.String("activity_type", a.ActivityType),
		zap.Int("tasks", len(created)))

	e.notifyAssignees(ctx, a, actor, created)
	return created, nil
}

// Draft builds the task rule r produces for activity a.
func Draft(r models.AutomationRule, a models.ActivityLog, assignee *primitive.ObjectID, actor primitive.ObjectID, now time.Time) models.Task {
	t := models.Task{
		OrganizationID: a.OrganizationID,
		ClientID:       a.ClientID,
		Title:          r.TaskTitle,
		Description:    r.TaskDescription,
		Category:       r.Category,
		Priority:       r.Priority,
		Status:         models.TaskStatusPendiente,
		AssignedTo:     assignee,
		CreatedBy:      actor,
		UpdatedBy:      actor,
	}
	id := r.ID
	t.AutomationRuleID = &id
	if r.DueInDays != nil {
		due := now.Add(time.Duration(*r.DueInDays) * 24 * time.Hour)
		t.DueDate = &due
	}
	return t
}

func (e *Engine) notifyAssignees(ctx context.Context, a models.ActivityLog, actor authz.Actor, created []models.Task) {
	if e.notify == nil {
		return
	}
	var users []primitive.ObjectID
	for _, t := range created {
		if t.AssignedTo != nil && *t.AssignedTo != actor.UserID {
			users = append(users, *t.AssignedTo)
		}
	}
	if len(users) == 0 {
		return
	}
	msg := notify.Message{
		Type:  models.NotifyTasksAutomated,
		Title: "Nuevas tareas asignadas",
	}.WithBody(fmt.Sprintf("Actividad %s registrada para el cliente %s", a.ActivityType, *a.ClientID)).
		Entity("CLIENT", *a.ClientID)
	if _, err := e.notify.NotifyUsers(ctx, a.OrganizationID, users, msg); err != nil {
		e.log.Warn("notify automated task assignees failed",
			zap.Error(err),
			zap.String("org_id", a.OrganizationID.Hex()),
			zap.String("client_id", *a.ClientID))
	}
}
