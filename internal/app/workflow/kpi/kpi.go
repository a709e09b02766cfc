// Package kpi derives the claim pipeline counters and the next actions
// shown on the workflow dashboard.
package kpi

import (
	"context"
	"math"
	"sort"
	"time"

	activitylogstore "github.com/dalemusser/claimdesk/internal/app/store/activitylogs"
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	documentstore "github.com/dalemusser/claimdesk/internal/app/store/documents"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MaxActions caps the next-action list.
const MaxActions = 10

// Action names.
const (
	ActionCompleteAdjustment      = "completeAdjustment"
	ActionSendAppraisalLetter     = "sendAppraisalLetter"
	ActionRequestScope            = "requestScope"
	ActionSendScope               = "sendScope"
	ActionFollowUpAdjuster        = "followUpAdjuster"
	ActionUploadInsuranceScope    = "uploadInsuranceScope"
	ActionFollowUpAppraisalLetter = "followUpAppraisalLetter"
)

// Priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// PipelineTypes are the activity types the deriver reads.
var PipelineTypes = []string{
	models.ActivityAjustacion,
	models.ActivityScopeSolicit,
	models.ActivityScopeRecibido,
	models.ActivityScopeEnviado,
	models.ActivityRespFavorable,
	models.ActivityRespNegativa,
	models.ActivityInicioApprais,
	models.ActivityCartaApprais,
}

var scopePhase = []string{
	models.ActivityScopeSolicit,
	models.ActivityScopeRecibido,
	models.ActivityScopeEnviado,
}

type Counters struct {
	AppraisalPending      int `json:"appraisal_pending"`
	ScopePending          int `json:"scope_pending"`
	ScopeSendPending      int `json:"scope_send_pending"`
	ResponsePending       int `json:"response_pending"`
	MissingInsuranceScope int `json:"missing_insurance_scope"`
}

type Action struct {
	ClientID   string     `json:"client_id"`
	ClientName string     `json:"client_name"`
	Action     string     `json:"action"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	DaysUntil  *int       `json:"days_until,omitempty"`
	Priority   string     `json:"priority"`
}

type Result struct {
	Counters    Counters `json:"counters"`
	NextActions []Action `json:"next_actions"`
}

// client is the per-client view the steps evaluate.
type client struct {
	c        models.Client
	latest   map[string]models.ActivityLog
	hasScope bool
	now      time.Time
	claimed  bool
}

func (s *client) has(activityType string) bool {
	_, ok := s.latest[activityType]
	return ok
}

func (s *client) at(activityType string) time.Time {
	return s.latest[activityType].PerformedAt
}

func (s *client) negative() bool { return s.has(models.ActivityRespNegativa) }

// claimMode says how a step interacts with an action already emitted for
// the client.
type claimMode int

const (
	// ignoresClaim steps count and emit regardless.
	ignoresClaim claimMode = iota
	// emitsUnclaimed steps always count but emit only for an unclaimed client.
	emitsUnclaimed
	// needsUnclaimed steps do nothing for a claimed client.
	needsUnclaimed
)

type step struct {
	name   string
	mode   claimMode
	when   func(s *client) bool
	count  func(c *Counters)
	emitIf func(s *client) bool
	due    func(s *client) *time.Time
	urgent bool
}

func after(t time.Time, d time.Duration) *time.Time {
	v := t.Add(d).UTC()
	return &v
}

const day = 24 * time.Hour

var steps = []step{
	{
		name: ActionCompleteAdjustment,
		when: func(s *client) bool {
			adj := s.c.AdjustmentDate
			return adj != nil &&
				!s.has(models.ActivityAjustacion) &&
				s.c.ClaimStatus != models.ClaimEnProceso &&
				s.now.Sub(*adj) > 2*time.Hour
		},
		due: func(s *client) *time.Time { return after(*s.c.AdjustmentDate, 2*time.Hour) },
	},
	{
		name:   ActionSendAppraisalLetter,
		when:   func(s *client) bool { return s.negative() && !s.has(models.ActivityInicioApprais) },
		count:  func(c *Counters) { c.AppraisalPending++ },
		emitIf: func(s *client) bool { return !s.has(models.ActivityCartaApprais) },
		urgent: true,
	},
	{
		// Evaluated even after completeAdjustment claims the client.
		name: ActionRequestScope,
		when: func(s *client) bool {
			return !s.negative() && s.c.AdjustmentDate != nil && !s.has(models.ActivityScopeRecibido)
		},
		count: func(c *Counters) { c.ScopePending++ },
		due:   func(s *client) *time.Time { return after(*s.c.AdjustmentDate, 5*day) },
	},
	{
		name: ActionSendScope,
		mode: needsUnclaimed,
		when: func(s *client) bool {
			return !s.negative() && s.has(models.ActivityScopeRecibido) && !s.has(models.ActivityScopeEnviado)
		},
		count: func(c *Counters) { c.ScopeSendPending++ },
		due:   func(s *client) *time.Time { return after(s.at(models.ActivityScopeRecibido), 2*day) },
	},
	{
		name: ActionFollowUpAdjuster,
		mode: needsUnclaimed,
		when: func(s *client) bool {
			return !s.negative() && s.has(models.ActivityScopeEnviado) && !s.has(models.ActivityRespFavorable)
		},
		count: func(c *Counters) { c.ResponsePending++ },
		due:   func(s *client) *time.Time { return after(s.at(models.ActivityScopeEnviado), 10*day) },
	},
	{
		name: ActionUploadInsuranceScope,
		mode: emitsUnclaimed,
		when: func(s *client) bool {
			if s.negative() || s.hasScope {
				return false
			}
			if s.c.ClaimStatus == models.ClaimEnProceso {
				return true
			}
			adj := s.c.AdjustmentDate
			if adj == nil || adj.After(s.now) {
				return false
			}
			for _, t := range scopePhase {
				if s.has(t) {
					return true
				}
			}
			return false
		},
		count:  func(c *Counters) { c.MissingInsuranceScope++ },
		urgent: true,
	},
	{
		name: ActionFollowUpAppraisalLetter,
		mode: needsUnclaimed,
		when: func(s *client) bool {
			return s.has(models.ActivityCartaApprais) && !s.has(models.ActivityInicioApprais)
		},
		due: func(s *client) *time.Time { return after(s.at(models.ActivityCartaApprais), 5*day) },
	},
}

// Derive evaluates every client against the step list. logs must be in
// the order the store returns them (most recent first): the first log of
// each type per client is the one used. scoped holds the ids of clients
// with an insurance scope document.
func Derive(clients []models.Client, logs []models.ActivityLog, scoped map[string]bool, now time.Time) Result {
	now = now.UTC()
	latest := make(map[string]map[string]models.ActivityLog)
	for _, l := range logs {
		if l.ClientID == nil {
			continue
		}
		byType := latest[*l.ClientID]
		if byType == nil {
			byType = map[string]models.ActivityLog{}
			latest[*l.ClientID] = byType
		}
		if _, seen := byType[l.ActivityType]; !seen {
			byType[l.ActivityType] = l
		}
	}

	var res Result
	actions := []Action{}
	for _, c := range clients {
		s := &client{c: c, latest: latest[c.ID], hasScope: scoped[c.ID], now: now}
		for _, st := range steps {
			if st.mode == needsUnclaimed && s.claimed {
				continue
			}
			if !st.when(s) {
				continue
			}
			if st.count != nil {
				st.count(&res.Counters)
			}
			if st.mode == emitsUnclaimed && s.claimed {
				continue
			}
			if st.emitIf != nil && !st.emitIf(s) {
				continue
			}
			actions = append(actions, build(st, s))
			s.claimed = true
		}
	}

	sort.SliceStable(actions, func(i, j int) bool {
		a, b := actions[i].DueDate, actions[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.Before(*b)
	})
	if len(actions) > MaxActions {
		actions = actions[:MaxActions]
	}
	res.NextActions = actions
	return res
}

func build(st step, s *client) Action {
	a := Action{
		ClientID:   s.c.ID,
		ClientName: s.c.FullName(),
		Action:     st.name,
		Priority:   PriorityLow,
	}
	if st.urgent {
		a.Priority = PriorityHigh
	}
	if st.due != nil {
		due := st.due(s)
		days := DaysUntil(*due, s.now)
		a.DueDate = due
		a.DaysUntil = &days
		a.Priority = PriorityFor(days)
	}
	return a
}

// DaysUntil counts whole days from now to due, rounding up. A due time
// already passed gives zero or less.
func DaysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// PriorityFor ranks a dated action by its days until due.
func PriorityFor(days int) string {
	switch {
	case days <= 0:
		return PriorityHigh
	case days <= 2:
		return PriorityMedium
	}
	return PriorityLow
}

// Service loads an organization's pipeline state and derives its KPIs.
type Service struct {
	clients *clientstore.Store
	logs    *activitylogstore.Store
	docs    *documentstore.Store
	now     func() time.Time
}

func NewService(db *mongo.Database) *Service {
	return &Service{
		clients: clientstore.New(db),
		logs:    activitylogstore.New(db),
		docs:    documentstore.New(db),
		now:     time.Now,
	}
}

// Compute reads orgID's clients, pipeline activity logs and insurance
// scope documents and derives the dashboard KPIs.
func (s *Service) Compute(ctx context.Context, orgID primitive.ObjectID) (Result, error) {
	clients, err := s.clients.List(ctx, orgID)
	if err != nil {
		return Result{}, err
	}
	logs, err := s.logs.ListByTypes(ctx, orgID, PipelineTypes)
	if err != nil {
		return Result{}, err
	}
	scoped, err := s.docs.ClientIDsWithType(ctx, orgID, models.DocScopeAseguradora)
	if err != nil {
		return Result{}, err
	}
	return Derive(clients, logs, scoped, s.now()), nil
}
