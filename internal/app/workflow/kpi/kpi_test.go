package kpi_test

import (
	"fmt"
	"testing"
	"time"

	activitylogstore "github.com/dalemusser/claimdesk/internal/app/store/activitylogs"
	documentstore "github.com/dalemusser/claimdesk/internal/app/store/documents"
	"github.com/dalemusser/claimdesk/internal/app/workflow/kpi"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	t := now.Add(-d)
	return &t
}

func logOf(clientID, activityType string, at time.Time) models.ActivityLog {
	id := clientID
	return models.ActivityLog{ID: primitive.NewObjectID(), ClientID: &id, ActivityType: activityType, PerformedAt: at}
}

func actionsOf(res kpi.Result, clientID string) []string {
	var out []string
	for _, a := range res.NextActions {
		if a.ClientID == clientID {
			out = append(out, a.Action)
		}
	}
	return out
}

func TestDerive_Cascade(t *testing.T) {
	tests := []struct {
		name     string
		client   models.Client
		logs     []models.ActivityLog
		scoped   bool
		want     []string
		counters kpi.Counters
	}{
		{
			name:     "adjustment not logged",
			client:   models.Client{ID: "A", AdjustmentDate: ago(3 * time.Hour), ClaimStatus: models.ClaimAjustacionProgramada},
			want:     []string{kpi.ActionCompleteAdjustment, kpi.ActionRequestScope},
			counters: kpi.Counters{ScopePending: 1},
		},
		{
			name:     "adjustment too recent",
			client:   models.Client{ID: "A", AdjustmentDate: ago(time.Hour)},
			want:     []string{kpi.ActionRequestScope},
			counters: kpi.Counters{ScopePending: 1},
		},
		{
			name:     "in process skips adjustment and misses scope",
			client:   models.Client{ID: "A", AdjustmentDate: ago(3 * time.Hour), ClaimStatus: models.ClaimEnProceso},
			want:     []string{kpi.ActionRequestScope},
			counters: kpi.Counters{ScopePending: 1, MissingInsuranceScope: 1},
		},
		{
			name:   "scope received not sent",
			client: models.Client{ID: "A", AdjustmentDate: ago(10 * 24 * time.Hour)},
			logs: []models.ActivityLog{
				logOf("A", models.ActivityScopeRecibido, now.Add(-24*time.Hour)),
				logOf("A", models.ActivityAjustacion, now.Add(-9*24*time.Hour)),
			},
			want:     []string{kpi.ActionSendScope},
			counters: kpi.Counters{ScopeSendPending: 1, MissingInsuranceScope: 1},
		},
		{
			name:   "scope received with document",
			client: models.Client{ID: "A", AdjustmentDate: ago(10 * 24 * time.Hour)},
			logs: []models.ActivityLog{
				logOf("A", models.ActivityScopeRecibido, now.Add(-24*time.Hour)),
				logOf("A", models.ActivityAjustacion, now.Add(-9*24*time.Hour)),
			},
			scoped:   true,
			want:     []string{kpi.ActionSendScope},
			counters: kpi.Counters{ScopeSendPending: 1},
		},
		{
			name:   "scope sent awaiting response",
			client: models.Client{ID: "A", AdjustmentDate: ago(20 * 24 * time.Hour)},
			logs: []models.ActivityLog{
				logOf("A", models.ActivityScopeEnviado, now.Add(-2*24*time.Hour)),
				logOf("A", models.ActivityScopeRecibido, now.Add(-5*24*time.Hour)),
				logOf("A", models.ActivityAjustacion, now.Add(-19*24*time.Hour)),
			},
			scoped:   true,
			want:     []string{kpi.ActionFollowUpAdjuster},
			counters: kpi.Counters{ResponsePending: 1},
		},
		{
			name:   "favorable response closes pipeline",
			client: models.Client{ID: "A", AdjustmentDate: ago(20 * 24 * time.Hour)},
			logs: []models.ActivityLog{
				logOf("A", models.ActivityRespFavorable, now.Add(-24*time.Hour)),
				logOf("A", models.ActivityScopeEnviado, now.Add(-2*24*time.Hour)),
				logOf("A", models.ActivityScopeRecibido, now.Add(-5*24*time.Hour)),
				logOf("A", models.ActivityAjustacion, now.Add(-19*24*time.Hour)),
			},
			scoped: true,
		},
		{
			name:   "negative response needs appraisal letter",
			client: models.Client{ID: "A", AdjustmentDate: ago(20 * 24 * time.Hour)},
			logs: []models.ActivityLog{
				logOf("A", models.ActivityRespNegativa, now.Add(-24*time.Hour)),
				logOf("A", models.ActivityAjustacion, now.Add(-19*24*time.Hour)),
			},
			want:     []string{kpi.ActionSendAppraisalLetter},
			counters: kpi.Counters{AppraisalPending: 1},
		},
		{
			name:   "appraisal letter sent",
			client: models.Client{ID: "A", AdjustmentDate: ago(20 * 24 * time.Hour)},
			logs: []models.ActivityLog{
				logOf("A", models.ActivityCartaApprais, now.Add(-24*time.Hour)),
				logOf("A", models.ActivityRespNegativa, now.Add(-3*24*time.Hour)),
				logOf("A", models.ActivityAjustacion, now.Add(-19*24*time.Hour)),
			},
			want:     []string{kpi.ActionFollowUpAppraisalLetter},
			counters: kpi.Counters{AppraisalPending: 1},
		},
		{
			name:   "appraisal started",
			client: models.Client{ID: "A", AdjustmentDate: ago(20 * 24 * time.Hour)},
			logs: []models.ActivityLog{
				logOf("A", models.ActivityInicioApprais, now.Add(-24*time.Hour)),
				logOf("A", models.ActivityCartaApprais, now.Add(-2*24*time.Hour)),
				logOf("A", models.ActivityRespNegativa, now.Add(-3*24*time.Hour)),
				logOf("A", models.ActivityAjustacion, now.Add(-19*24*time.Hour)),
			},
		},
		{
			name:   "no adjustment no activity",
			client: models.Client{ID: "A", ClaimStatus: models.ClaimNoSometida},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scoped := map[string]bool{}
			if tt.scoped {
				scoped[tt.client.ID] = true
			}
			res := kpi.Derive([]models.Client{tt.client}, tt.logs, scoped, now)
			got := actionsOf(res, tt.client.ID)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("actions = %v, want %v", got, tt.want)
			}
			if res.Counters != tt.counters {
				t.Errorf("counters = %+v, want %+v", res.Counters, tt.counters)
			}
		})
	}
}

func TestDerive_CompleteAdjustmentDue(t *testing.T) {
	adj := now.Add(-3 * time.Hour)
	res := kpi.Derive([]models.Client{{ID: "A", AdjustmentDate: &adj}}, nil, nil, now)

	var found []kpi.Action
	for _, a := range res.NextActions {
		if a.Action == kpi.ActionCompleteAdjustment {
			found = append(found, a)
		}
	}
	if len(found) != 1 {
		t.Fatalf("got %d completeAdjustment actions, want 1", len(found))
	}
	a := found[0]
	if a.DueDate == nil || !a.DueDate.Equal(adj.Add(2*time.Hour)) {
		t.Errorf("DueDate = %v, want %v", a.DueDate, adj.Add(2*time.Hour))
	}
	if a.Priority != kpi.PriorityHigh {
		t.Errorf("Priority = %q, want high (overdue)", a.Priority)
	}
}

func TestDerive_FirstLogOfTypeWins(t *testing.T) {
	c := models.Client{ID: "A", AdjustmentDate: ago(30 * 24 * time.Hour)}
	logs := []models.ActivityLog{
		logOf("A", models.ActivityScopeRecibido, now.Add(-24*time.Hour)),
		logOf("A", models.ActivityScopeRecibido, now.Add(-10*24*time.Hour)),
		logOf("A", models.ActivityAjustacion, now.Add(-29*24*time.Hour)),
	}
	res := kpi.Derive([]models.Client{c}, logs, map[string]bool{"A": true}, now)
	if len(res.NextActions) != 1 {
		t.Fatalf("got %d actions, want 1", len(res.NextActions))
	}
	want := now.Add(-24 * time.Hour).Add(2 * 24 * time.Hour)
	if got := res.NextActions[0].DueDate; got == nil || !got.Equal(want) {
		t.Errorf("sendScope due = %v, want %v", got, want)
	}
}

func TestDerive_SortAndCap(t *testing.T) {
	var clients []models.Client
	var logs []models.ActivityLog
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("D%02d", i)
		clients = append(clients, models.Client{ID: id, AdjustmentDate: ago(time.Duration(30-i) * 24 * time.Hour)})
		logs = append(logs, logOf(id, models.ActivityAjustacion, now.Add(-time.Duration(29-i)*24*time.Hour)))
	}
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("N%02d", i)
		clients = append(clients, models.Client{ID: id})
		logs = append(logs, logOf(id, models.ActivityRespNegativa, now.Add(-24*time.Hour)))
	}

	res := kpi.Derive(clients, logs, nil, now)
	if len(res.NextActions) != kpi.MaxActions {
		t.Fatalf("got %d actions, want %d", len(res.NextActions), kpi.MaxActions)
	}
	if res.Counters.AppraisalPending != 5 || res.Counters.ScopePending != 8 {
		t.Errorf("counters = %+v", res.Counters)
	}

	seenUndated := false
	var last time.Time
	for i, a := range res.NextActions {
		if a.DueDate == nil {
			seenUndated = true
			continue
		}
		if seenUndated {
			t.Fatalf("dated action at %d follows an undated one", i)
		}
		if a.DueDate.Before(last) {
			t.Errorf("action %d due %v before previous %v", i, a.DueDate, last)
		}
		last = *a.DueDate
	}
	if !seenUndated {
		t.Error("expected undated appraisal actions after the dated ones")
	}
}

func TestDaysUntilAndPriority(t *testing.T) {
	tests := []struct {
		due      time.Time
		days     int
		priority string
	}{
		{now.Add(-48 * time.Hour), -2, kpi.PriorityHigh},
		{now, 0, kpi.PriorityHigh},
		{now.Add(time.Hour), 1, kpi.PriorityMedium},
		{now.Add(48 * time.Hour), 2, kpi.PriorityMedium},
		{now.Add(49 * time.Hour), 3, kpi.PriorityLow},
		{now.Add(10 * 24 * time.Hour), 10, kpi.PriorityLow},
	}
	for _, tt := range tests {
		t.Run(tt.due.Format(time.RFC3339), func(t *testing.T) {
			days := kpi.DaysUntil(tt.due, now)
			if days != tt.days {
				t.Errorf("DaysUntil = %d, want %d", days, tt.days)
			}
			if p := kpi.PriorityFor(days); p != tt.priority {
				t.Errorf("PriorityFor(%d) = %q, want %q", days, p, tt.priority)
			}
		})
	}
}

func TestService_Compute(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Ajustes Boricua")
	other := fx.CreateOrganization(ctx, "Otra Firma")
	adj := time.Now().UTC().Add(-48 * time.Hour)
	fx.CreateClient(ctx, org.ID, models.Client{ID: "SJ20240101JP", FirstName: "Juan", LastName: "Perez", AdjustmentDate: &adj})
	fx.CreateClient(ctx, other.ID, models.Client{ID: "PO20240101MR", FirstName: "Maria", LastName: "Rios", AdjustmentDate: &adj})

	logs := activitylogstore.New(db)
	cid := "SJ20240101JP"
	if _, err := logs.Create(ctx, models.ActivityLog{
		OrganizationID: org.ID, ClientID: &cid, ActivityType: models.ActivityScopeRecibido,
		PerformedBy: primitive.NewObjectID(), PerformedAt: time.Now().UTC().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("create log: %v", err)
	}
	if _, err := documentstore.New(db).Create(ctx, models.Document{
		OrganizationID: org.ID, ClientID: &cid, DocumentType: models.DocScopeAseguradora, FileName: "scope.pdf",
		UploadedBy: primitive.NewObjectID(),
	}); err != nil {
		t.Fatalf("create document: %v", err)
	}

	res, err := kpi.NewService(db).Compute(ctx, org.ID)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got := actionsOf(res, cid); len(got) != 1 || got[0] != kpi.ActionCompleteAdjustment {
		t.Errorf("actions = %v", got)
	}
	if res.Counters.ScopeSendPending != 0 || res.Counters.MissingInsuranceScope != 0 {
		t.Errorf("counters = %+v", res.Counters)
	}
	for _, a := range res.NextActions {
		if a.ClientID != cid {
			t.Errorf("action for another organization's client: %+v", a)
		}
	}
}
