package notificationstore_test

import (
	"errors"
	"testing"

	notificationstore "github.com/dalemusser/claimdesk/internal/app/store/notifications"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_ReadFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := primitive.NewObjectID()
	me, other := primitive.NewObjectID(), primitive.NewObjectID()

	if got, err := store.InsertMany(ctx, nil); err != nil || len(got) != 0 {
		t.Fatalf("InsertMany(nil) = %v, %v", got, err)
	}
	ns, err := store.InsertMany(ctx, []models.Notification{
		{OrganizationID: org, UserID: me, Type: models.NotifyClientCreated, Title: "one"},
		{OrganizationID: org, UserID: me, Type: models.NotifyClientCreated, Title: "two"},
		{OrganizationID: org, UserID: other, Type: models.NotifyClientCreated, Title: "theirs"},
	})
	if err != nil {
		t.Fatalf("InsertMany failed: %v", err)
	}

	list, _ := store.ListForUser(ctx, org, me)
	if len(list) != 2 {
		t.Fatalf("ListForUser = %d, want 2", len(list))
	}
	if n, _ := store.UnreadCount(ctx, org, me); n != 2 {
		t.Errorf("UnreadCount = %d, want 2", n)
	}

	if err := store.MarkRead(ctx, org, me, ns[0].ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if err := store.MarkRead(ctx, org, me, ns[2].ID); !errors.Is(err, notificationstore.ErrNotFound) {
		t.Errorf("marking someone else's notification: got %v", err)
	}
	if n, _ := store.UnreadCount(ctx, org, me); n != 1 {
		t.Errorf("UnreadCount after MarkRead = %d, want 1", n)
	}

	if n, err := store.MarkAllRead(ctx, org, me); err != nil || n != 1 {
		t.Errorf("MarkAllRead = %d, %v; want 1", n, err)
	}
	if n, _ := store.UnreadCount(ctx, org, other); n != 1 {
		t.Errorf("other user's unread = %d, want 1", n)
	}
}
