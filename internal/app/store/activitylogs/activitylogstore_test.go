package activitylogstore_test

import (
	"errors"
	"testing"
	"time"

	activitylogstore "github.com/dalemusser/claimdesk/internal/app/store/activitylogs"
	"github.com/dalemusser/claimdesk/internal/app/system/patch"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strp(s string) *string { return &s }

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitylogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := primitive.NewObjectID()
	actor := primitive.NewObjectID()
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	for i, typ := range []string{models.ActivityLlamada, models.ActivityScopeSolicit, models.ActivityScopeRecibido} {
		_, err := store.Create(ctx, models.ActivityLog{
			OrganizationID: org,
			ClientID:       strp("C1"),
			ActivityType:   typ,
			PerformedBy:    actor,
			PerformedAt:    base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	// Unlinked note and another org's log.
	_, _ = store.Create(ctx, models.ActivityLog{OrganizationID: org, ActivityType: models.ActivityNota, PerformedBy: actor})
	_, _ = store.Create(ctx, models.ActivityLog{OrganizationID: primitive.NewObjectID(), ClientID: strp("C1"), ActivityType: models.ActivityScopeSolicit, PerformedBy: actor})

	byClient, err := store.ListByClient(ctx, org, "C1")
	if err != nil {
		t.Fatalf("ListByClient failed: %v", err)
	}
	if len(byClient) != 3 || byClient[0].ActivityType != models.ActivityScopeRecibido {
		t.Errorf("ListByClient: got %d logs, first %q", len(byClient), byClient[0].ActivityType)
	}

	pipeline, err := store.ListByTypes(ctx, org, []string{models.ActivityScopeSolicit, models.ActivityScopeRecibido})
	if err != nil {
		t.Fatalf("ListByTypes failed: %v", err)
	}
	if len(pipeline) != 2 || pipeline[0].ActivityType != models.ActivityScopeRecibido {
		t.Errorf("ListByTypes: got %+v", pipeline)
	}

	recent, err := store.Recent(ctx, org, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("Recent(2) returned %d", len(recent))
	}
}

func TestStore_UpdateDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitylogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := primitive.NewObjectID()

	a, err := store.Create(ctx, models.ActivityLog{OrganizationID: org, ActivityType: models.ActivityLlamada, Subject: strp("Primera llamada"), PerformedBy: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	upd, _ := patch.New().Text("subject", strp("")).Note("outcome", strp("Interesado")).Update(time.Now())
	got, err := store.Update(ctx, org, a.ID, upd)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Subject != nil || got.Outcome == nil || *got.Outcome != "Interesado" {
		t.Errorf("unexpected log after update: %+v", got)
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID(), a.ID); !errors.Is(err, activitylogstore.ErrNotFound) {
		t.Errorf("GetByID from another org: got %v", err)
	}
	if n, err := store.Delete(ctx, org, a.ID); err != nil || n != 1 {
		t.Errorf("Delete = %d, %v", n, err)
	}
}
