package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log_AutoFills(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	before := time.Now().Add(-time.Second)
	userID := primitive.NewObjectID()
	if err := store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &userID, IP: "10.0.0.1", Success: true}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be generated")
	}
	if events[0].Timestamp.Before(before) {
		t.Errorf("Timestamp %v not set to now", events[0].Timestamp)
	}
}

func TestStore_Query(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := primitive.NewObjectID()
	other := primitive.NewObjectID()
	actor := primitive.NewObjectID()

	seed := []audit.Event{
		{OrganizationID: &org, Category: audit.CategoryData, EventType: audit.ActionCreate, EntityType: audit.EntityClient, EntityID: "SJ20260101JP", ActorID: &actor, Success: true},
		{OrganizationID: &org, Category: audit.CategoryData, EventType: audit.ActionUpdate, EntityType: audit.EntityClient, EntityID: "SJ20260101JP", ActorID: &actor, Success: true, Details: map[string]string{"fields": "claim_status"}},
		{OrganizationID: &org, Category: audit.CategoryData, EventType: audit.ActionDelete, EntityType: audit.EntityTask, EntityID: primitive.NewObjectID().Hex(), ActorID: &actor, Success: true},
		{OrganizationID: &org, Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, UserID: &actor, FailureReason: "bad password"},
		{OrganizationID: &other, Category: audit.CategoryData, EventType: audit.ActionCreate, EntityType: audit.EntityClient, EntityID: "XX20260101XX", Success: true},
	}
	for i, e := range seed {
		e.Timestamp = time.Now().UTC().Add(time.Duration(i) * time.Second)
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter audit.QueryFilter
		want   int
	}{
		{"org", audit.QueryFilter{OrganizationID: &org}, 4},
		{"data only", audit.QueryFilter{OrganizationID: &org, Category: audit.CategoryData}, 3},
		{"entity", audit.QueryFilter{OrganizationID: &org, EntityType: audit.EntityClient, EntityID: "SJ20260101JP"}, 2},
		{"entity type", audit.QueryFilter{OrganizationID: &org, EntityType: audit.EntityTask}, 1},
		{"other org", audit.QueryFilter{OrganizationID: &other}, 1},
		{"limit", audit.QueryFilter{OrganizationID: &org, Limit: 2}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}

	got, _ := store.Query(ctx, audit.QueryFilter{OrganizationID: &org, Category: audit.CategoryData})
	if got[0].EventType != audit.ActionDelete {
		t.Errorf("newest first: got %q first", got[0].EventType)
	}
	if n, _ := store.CountByFilter(ctx, audit.QueryFilter{Category: audit.CategoryData}); n != 4 {
		t.Errorf("CountByFilter = %d, want 4", n)
	}
}

func TestStore_GetFailedLogins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedUserNotFound})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedRateLimit})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, Timestamp: time.Now().Add(-48 * time.Hour)})

	got, err := store.GetFailedLogins(ctx, time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("GetFailedLogins failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d failed logins, want 2", len(got))
	}
}
