package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/validators"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, want := range validators.Collections {
		if !have[want] {
			t.Errorf("expected collection %q", want)
		}
	}
}

func TestEnsureAll_RejectsInvalidDocuments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	org := primitive.NewObjectID()
	now := time.Now().UTC()

	tests := []struct {
		name    string
		coll    string
		doc     bson.M
		wantErr bool
	}{
		{"valid task", "tasks", bson.M{"organization_id": org, "title": "Call", "category": "SEGUIMIENTO", "priority": "ALTA", "status": "PENDIENTE"}, false},
		{"task bad category", "tasks", bson.M{"organization_id": org, "title": "Call", "category": "PAPELEO", "priority": "ALTA", "status": "PENDIENTE"}, true},
		{"task blank title", "tasks", bson.M{"organization_id": org, "title": "   ", "category": "OTRO", "priority": "ALTA", "status": "PENDIENTE"}, true},
		{"valid event", "events", bson.M{"organization_id": org, "event_type": "MEETING", "title": "Visit", "event_date": now, "event_time": "09:30", "status": "SCHEDULED"}, false},
		{"event bad time", "events", bson.M{"organization_id": org, "event_type": "MEETING", "title": "Visit", "event_date": now, "event_time": "9am", "status": "SCHEDULED"}, true},
		{"activity bad type", "activity_logs", bson.M{"organization_id": org, "activity_type": "FAX", "performed_by": primitive.NewObjectID(), "performed_at": now}, true},
		{"member bad role", "organization_members", bson.M{"organization_id": org, "user_id": primitive.NewObjectID(), "role": "OWNER", "username": "a", "username_ci": "a"}, true},
		{"client custom status", "clients", bson.M{"_id": "XX20260101XX", "organization_id": org, "first_name": "A", "last_name": "B", "claim_status": "EN_MEDIACION"}, false},
		{"client bad flag", "clients", bson.M{"_id": "XX20260101XY", "organization_id": org, "first_name": "A", "last_name": "B", "claim_status": "SOMETIDA", "primer_cheque": "MAYBE"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection(tt.coll).InsertOne(ctx, tt.doc)
			if tt.wantErr && err == nil {
				t.Error("expected document validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
