package activity_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/features/activity"
	automationrulestore "github.com/dalemusser/claimdesk/internal/app/store/automationrules"
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/app/workflow/automation"
	"github.com/dalemusser/claimdesk/internal/app/workflow/notify"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	db     *mongo.Database
	h      *activity.Handler
	org    models.Organization
	client models.Client
	seller testutil.TestUser
	admin  testutil.TestUser
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme Adjusters")
	su, sm := fx.CreateMember(ctx, org.ID, "seller@acme.internal", models.RoleVendedor, "seller-pass-1")
	au, am := fx.CreateMember(ctx, org.ID, "admin@acme.internal", models.RoleAdmin, "admin-pass-1")
	c := fx.CreateClient(ctx, org.ID, models.Client{ID: "SJ20260101JP", FirstName: "Juan", LastName: "Pérez", ClaimStatus: models.ClaimSometida})

	engine := automation.New(db, notify.New(db, zap.NewNop()), zap.NewNop())
	return env{
		db:     db,
		h:      activity.NewHandler(db, testutil.NewAuditLogger(db), engine, zap.NewNop()),
		org:    org,
		client: c,
		seller: testutil.MemberUser(su, sm),
		admin:  testutil.MemberUser(au, am),
	}
}

type created struct {
	Activity        models.ActivityLog `json:"activity"`
	AutomatedTasks  []models.Task      `json:"automated_tasks"`
	AutomationError string             `json:"automation_error"`
}

func (e env) log(t *testing.T, body map[string]any) created {
	t.Helper()
	rec := testutil.NewRecorder()
	e.h.HandleCreate(rec, testutil.NewJSONRequest(t, http.MethodPost, "/activity-logs", body, e.seller))
	rec.AssertStatus(t, http.StatusCreated)
	var out created
	rec.DecodeJSON(t, &out)
	return out
}

func TestHandleCreate_RunsAutomation(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	days := 5
	if _, err := automationrulestore.New(e.db).Create(ctx, models.AutomationRule{
		OrganizationID: e.org.ID,
		ActivityType:   models.ActivityScopeSolicit,
		TaskTitle:      "Follow up scope",
		Category:       models.TaskCategorySeguimiento,
		Priority:       models.TaskPriorityMedia,
		DueInDays:      &days,
		IsActive:       true,
	}); err != nil {
		t.Fatal(err)
	}

	before := time.Now()
	out := e.log(t, map[string]any{"client_id": e.client.ID, "activity_type": "scope_solicitado"})
	if out.AutomationError != "" {
		t.Fatalf("automation error: %s", out.AutomationError)
	}
	if len(out.AutomatedTasks) != 1 {
		t.Fatalf("automated tasks: got %d, want 1", len(out.AutomatedTasks))
	}
	task := out.AutomatedTasks[0]
	if task.Title != "Follow up scope" || task.ClientID == nil || *task.ClientID != e.client.ID {
		t.Errorf("task: %+v", task)
	}
	if task.DueDate == nil {
		t.Fatal("task has no due date")
	}
	want := before.Add(5 * 24 * time.Hour)
	if d := task.DueDate.Sub(want); d < -time.Minute || d > time.Minute {
		t.Errorf("due date %v, want about %v", task.DueDate, want)
	}

	// Rules re-trigger on every matching activity.
	out = e.log(t, map[string]any{"client_id": e.client.ID, "activity_type": "SCOPE_SOLICITADO"})
	if len(out.AutomatedTasks) != 1 {
		t.Errorf("second activity: got %d tasks", len(out.AutomatedTasks))
	}

	// Without a client nothing is automated.
	out = e.log(t, map[string]any{"activity_type": "SCOPE_SOLICITADO"})
	if len(out.AutomatedTasks) != 0 {
		t.Errorf("activity without client created %d tasks", len(out.AutomatedTasks))
	}
}

func TestHandleCreate_TouchesLastContact(t *testing.T) {
	e := setup(t)

	e.log(t, map[string]any{"client_id": e.client.ID, "activity_type": "LLAMADA", "performed_at": "2026-05-02T15:00:00Z"})
	e.log(t, map[string]any{"client_id": e.client.ID, "activity_type": "NOTA", "performed_at": "2026-06-01T15:00:00Z"})

	ctx, cancel := testutil.TestContext()
	defer cancel()
	c, err := clientstore.New(e.db).GetByID(ctx, e.org.ID, e.client.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC)
	if c.LastContactDate == nil || !c.LastContactDate.Equal(want) {
		t.Errorf("last contact: got %v, want %v", c.LastContactDate, want)
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	e := setup(t)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{"unknown type", map[string]any{"activity_type": "FAX"}, http.StatusBadRequest, httpjson.CodeBadRequest},
		{"missing type", map[string]any{"subject": "hola"}, http.StatusBadRequest, httpjson.CodeBadRequest},
		{"negative duration", map[string]any{"activity_type": "LLAMADA", "duration": -5}, http.StatusBadRequest, httpjson.CodeBadRequest},
		{"unknown client", map[string]any{"activity_type": "LLAMADA", "client_id": "XX20260101AA"}, http.StatusNotFound, httpjson.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			e.h.HandleCreate(rec, testutil.NewJSONRequest(t, http.MethodPost, "/activity-logs", tt.body, e.seller))
			rec.AssertStatus(t, tt.wantStatus)
			rec.AssertErrorCode(t, tt.wantCode)
		})
	}
}

func TestServeRecent(t *testing.T) {
	e := setup(t)
	for i := 0; i < 3; i++ {
		e.log(t, map[string]any{"activity_type": "NOTA"})
	}

	tests := []struct {
		target     string
		wantStatus int
		wantLen    int
	}{
		{"/activity-logs/recent", http.StatusOK, 3},
		{"/activity-logs/recent?limit=2", http.StatusOK, 2},
		{"/activity-logs/recent?limit=5000", http.StatusOK, 3},
		{"/activity-logs/recent?limit=abc", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := testutil.NewRecorder()
			e.h.ServeRecent(rec, testutil.NewAuthenticatedRequest(http.MethodGet, tt.target, e.seller))
			rec.AssertStatus(t, tt.wantStatus)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got []models.ActivityLog
			rec.DecodeJSON(t, &got)
			if len(got) != tt.wantLen {
				t.Errorf("got %d logs, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestHandleUpdateAndDelete(t *testing.T) {
	e := setup(t)
	out := e.log(t, map[string]any{"client_id": e.client.ID, "activity_type": "NOTA", "subject": "primera"})
	id := out.Activity.ID.Hex()

	rec := testutil.NewRecorder()
	req := testutil.NewJSONRequest(t, http.MethodPatch, "/", map[string]any{"subject": "", "outcome": "<b>ok</b><script>alert(1)</script>"}, e.seller)
	e.h.HandleUpdate(rec, testutil.WithChiURLParam(req, "id", id))
	rec.AssertStatus(t, http.StatusOK)
	var got models.ActivityLog
	rec.DecodeJSON(t, &got)
	if got.Subject != nil {
		t.Errorf("subject should be cleared, got %q", *got.Subject)
	}
	if got.Outcome == nil || *got.Outcome != "<b>ok</b>" {
		t.Errorf("outcome: got %v", got.Outcome)
	}

	rec = testutil.NewRecorder()
	e.h.HandleDelete(rec, testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodDelete, "/", e.seller), "id", id))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	e.h.HandleDelete(rec, testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodDelete, "/", e.admin), "id", id))
	rec.AssertStatus(t, http.StatusNoContent)

	rec = testutil.NewRecorder()
	e.h.HandleDelete(rec, testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodDelete, "/", e.admin), "id", "not-an-id"))
	rec.AssertStatus(t, http.StatusNotFound)
}
