package events_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/features/events"
	eventstore "github.com/dalemusser/claimdesk/internal/app/store/events"
	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	db     *mongo.Database
	h      *events.Handler
	admin  testutil.TestUser
	seller testutil.TestUser
	client models.Client
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme Adjusters")
	c := fx.CreateClient(ctx, org.ID, models.Client{ID: "PO20260101AS", FirstName: "Ana", LastName: "Soto"})

	return env{
		db:     db,
		h:      events.NewHandler(db, testutil.NewAuditLogger(db), zap.NewNop()),
		admin:  testutil.AdminUser(org.ID),
		seller: testutil.VendedorUser(org.ID),
		client: c,
	}
}

func (e env) create(t *testing.T, body map[string]any) models.Event {
	t.Helper()
	rec := testutil.NewRecorder()
	e.h.HandleCreate(rec, testutil.NewJSONRequest(t, http.MethodPost, "/events", body, e.seller))
	rec.AssertStatus(t, http.StatusCreated)
	var out models.Event
	rec.DecodeJSON(t, &out)
	return out
}

func TestHandleCreate(t *testing.T) {
	e := setup(t)

	ev := e.create(t, map[string]any{
		"client_id":      e.client.ID,
		"event_type":     "inspection",
		"title":          "Roof inspection",
		"event_date":     "2026-11-02",
		"event_time":     "09:30",
		"adjuster_email": "Adjuster@Insurer.COM",
	})
	if ev.EventType != models.EventTypeInspection || ev.Status != models.EventStatusScheduled {
		t.Errorf("type/status: got %s/%s", ev.EventType, ev.Status)
	}
	if ev.EventTime == nil || *ev.EventTime != "09:30" {
		t.Errorf("event_time: got %v", ev.EventTime)
	}
	if ev.AdjusterEmail == nil || *ev.AdjusterEmail != "adjuster@insurer.com" {
		t.Errorf("adjuster_email: got %v", ev.AdjusterEmail)
	}
	if !ev.EventDate.Equal(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("event_date: got %v", ev.EventDate)
	}
	if ev.ReminderSent {
		t.Error("new events start without a reminder")
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	e := setup(t)

	base := func(extra map[string]any) map[string]any {
		b := map[string]any{"event_type": "MEETING", "title": "Visit", "event_date": "2026-11-02"}
		for k, v := range extra {
			b[k] = v
		}
		return b
	}
	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{"missing date", map[string]any{"event_type": "MEETING", "title": "Visit"}, http.StatusBadRequest},
		{"bad date", base(map[string]any{"event_date": "next week"}), http.StatusBadRequest},
		{"missing title", base(map[string]any{"title": " "}), http.StatusBadRequest},
		{"unknown type", base(map[string]any{"event_type": "PARTY"}), http.StatusBadRequest},
		{"bad time", base(map[string]any{"event_time": "25:00"}), http.StatusBadRequest},
		{"bad status", base(map[string]any{"status": "DONE"}), http.StatusBadRequest},
		{"unknown client", base(map[string]any{"client_id": "PO20990101XX"}), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			e.h.HandleCreate(rec, testutil.NewJSONRequest(t, http.MethodPost, "/events", tt.body, e.seller))
			rec.AssertStatus(t, tt.wantStatus)
			if tt.wantStatus == http.StatusBadRequest {
				rec.AssertErrorCode(t, httpjson.CodeBadRequest)
			}
		})
	}
}

func TestServeList(t *testing.T) {
	e := setup(t)
	e.create(t, map[string]any{"event_type": "MEETING", "title": "October", "event_date": "2026-10-20"})
	e.create(t, map[string]any{"event_type": "MEETING", "title": "November", "event_date": "2026-11-05", "client_id": e.client.ID})
	e.create(t, map[string]any{"event_type": "DEADLINE", "title": "December", "event_date": "2026-12-01"})

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"all", "/events", []string{"October", "November", "December"}},
		{"from", "/events?from=2026-11-01", []string{"November", "December"}},
		{"range inclusive", "/events?from=2026-10-20&to=2026-11-05", []string{"October", "November"}},
		{"by client", "/events?clientId=" + e.client.ID, []string{"November"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			e.h.ServeList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, tt.target, e.seller))
			rec.AssertStatus(t, http.StatusOK)
			var got []models.Event
			rec.DecodeJSON(t, &got)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events, want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				if got[i].Title != w {
					t.Errorf("event %d: got %q, want %q", i, got[i].Title, w)
				}
			}
		})
	}

	rec := testutil.NewRecorder()
	e.h.ServeList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/events?from=soon", e.seller))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleUpdate_RearmsReminder(t *testing.T) {
	e := setup(t)
	ev := e.create(t, map[string]any{"event_type": "MEETING", "title": "Visit", "event_date": "2026-11-02"})

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := eventstore.New(e.db).MarkReminderSent(ctx, ev.OrganizationID, ev.ID); err != nil {
		t.Fatal(err)
	}

	// A title change leaves the reminder alone.
	rec := testutil.NewRecorder()
	req := testutil.WithChiURLParam(testutil.NewJSONRequest(t, http.MethodPatch, "/events/"+ev.ID.Hex(),
		map[string]any{"title": "Site visit"}, e.seller), "id", ev.ID.Hex())
	e.h.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	var got models.Event
	rec.DecodeJSON(t, &got)
	if got.Title != "Site visit" || !got.ReminderSent {
		t.Errorf("after title change: %+v", got)
	}

	rec = testutil.NewRecorder()
	req = testutil.WithChiURLParam(testutil.NewJSONRequest(t, http.MethodPatch, "/events/"+ev.ID.Hex(),
		map[string]any{"event_date": "2026-11-09", "status": "rescheduled"}, e.seller), "id", ev.ID.Hex())
	e.h.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &got)
	if got.ReminderSent {
		t.Error("moving the event should re-arm its reminder")
	}
	if got.Status != models.EventStatusRescheduled {
		t.Errorf("status: got %s", got.Status)
	}

	rec = testutil.NewRecorder()
	req = testutil.WithChiURLParam(testutil.NewJSONRequest(t, http.MethodPatch, "/events/"+ev.ID.Hex(),
		map[string]any{"event_date": ""}, e.seller), "id", ev.ID.Hex())
	e.h.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleDelete(t *testing.T) {
	e := setup(t)
	ev := e.create(t, map[string]any{"event_type": "MEETING", "title": "Visit", "event_date": "2026-11-02"})

	tests := []struct {
		name       string
		user       testutil.TestUser
		id         string
		wantStatus int
	}{
		{"seller forbidden", e.seller, ev.ID.Hex(), http.StatusForbidden},
		{"admin deletes", e.admin, ev.ID.Hex(), http.StatusNoContent},
		{"already gone", e.admin, ev.ID.Hex(), http.StatusNotFound},
		{"malformed id", e.admin, "xyz", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			req := testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodDelete, "/events/"+tt.id, tt.user), "id", tt.id)
			e.h.HandleDelete(rec, req)
			rec.AssertStatus(t, tt.wantStatus)
		})
	}
}
