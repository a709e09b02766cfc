package taskstore_test

import (
	"errors"
	"testing"
	"time"

	taskstore "github.com/dalemusser/claimdesk/internal/app/store/tasks"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strp(s string) *string { return &s }

func TestSortForDisplay(t *testing.T) {
	d1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.Add(24 * time.Hour)
	tasks := []models.Task{
		{Title: "done", Status: models.TaskStatusCompletada},
		{Title: "undated", Status: models.TaskStatusPendiente},
		{Title: "later", Status: models.TaskStatusPendiente, DueDate: &d2},
		{Title: "sooner", Status: models.TaskStatusEnProgreso, DueDate: &d1},
	}
	taskstore.SortForDisplay(tasks)
	want := []string{"sooner", "later", "undated", "done"}
	for i, w := range want {
		if tasks[i].Title != w {
			t.Errorf("position %d: got %q, want %q", i, tasks[i].Title, w)
		}
	}
}

func TestStore_CreateListUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := primitive.NewObjectID()
	actor := primitive.NewObjectID()
	assignee := primitive.NewObjectID()

	a, err := store.Create(ctx, models.Task{OrganizationID: org, Title: "Call adjuster", Category: models.TaskCategorySeguimiento, Priority: models.TaskPriorityAlta, AssignedTo: &assignee, ClientID: strp("C1"), CreatedBy: actor, UpdatedBy: actor})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.Status != models.TaskStatusPendiente {
		t.Errorf("Status = %q, want PENDIENTE", a.Status)
	}
	_, _ = store.Create(ctx, models.Task{OrganizationID: org, Title: "Paperwork", Category: models.TaskCategoryDocumentacion, Priority: models.TaskPriorityBaja, CreatedBy: actor, UpdatedBy: actor})

	mine, err := store.List(ctx, org, taskstore.ListFilter{AssignedTo: &assignee})
	if err != nil || len(mine) != 1 {
		t.Fatalf("List(assignee) = %d, %v", len(mine), err)
	}
	byClient, _ := store.List(ctx, org, taskstore.ListFilter{ClientID: "C1"})
	if len(byClient) != 1 {
		t.Errorf("List(client) = %d, want 1", len(byClient))
	}
	all, _ := store.List(ctx, org, taskstore.ListFilter{})
	if len(all) != 2 {
		t.Errorf("List = %d, want 2", len(all))
	}

	now := time.Now().UTC()
	got, err := store.Update(ctx, org, a.ID, bson.M{"$set": bson.M{"status": models.TaskStatusCompletada, "completed_at": now}})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.CompletedAt == nil {
		t.Error("expected CompletedAt after update")
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID(), a.ID); !errors.Is(err, taskstore.ErrNotFound) {
		t.Errorf("GetByID from another org: got %v", err)
	}
	if n, _ := store.Delete(ctx, org, a.ID); n != 1 {
		t.Error("expected task deleted")
	}
}
