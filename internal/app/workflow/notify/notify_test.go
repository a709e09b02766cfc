package notify_test

import (
	"testing"
	"time"

	notificationstore "github.com/dalemusser/claimdesk/internal/app/store/notifications"
	"github.com/dalemusser/claimdesk/internal/app/workflow/notify"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestFanOut(t *testing.T) {
	org := primitive.NewObjectID()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	msg := notify.Message{Type: models.NotifyClientCreated, Title: "Nuevo cliente"}.WithBody("Juan Perez")

	tests := []struct {
		name  string
		users []primitive.ObjectID
		want  int
	}{
		{"no members", nil, 0},
		{"one member", []primitive.ObjectID{a}, 1},
		{"two members", []primitive.ObjectID{a, b}, 2},
		{"duplicates collapse", []primitive.ObjectID{a, b, a}, 2},
		{"zero ids skipped", []primitive.ObjectID{primitive.NilObjectID, b}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := notify.FanOut(org, tt.users, msg, now)
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			for _, n := range got {
				if n.Title != msg.Title || n.Body == nil || *n.Body != "Juan Perez" {
					t.Errorf("notification content differs: %+v", n)
				}
				if n.OrganizationID != org || n.ReadAt != nil || !n.CreatedAt.Equal(now) {
					t.Errorf("bookkeeping wrong: %+v", n)
				}
			}
		})
	}
}

func TestMessage_Entity(t *testing.T) {
	m := notify.Message{Title: "x"}.Entity("CLIENT", "SJ20240101JP")
	if m.EntityType == nil || *m.EntityType != "CLIENT" || m.EntityID == nil || *m.EntityID != "SJ20240101JP" {
		t.Errorf("Entity not applied: %+v", m)
	}
	if m.WithBody("").Body != nil {
		t.Error("blank body should stay unset")
	}
}

func TestDispatcher_NotifyOrganization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	empty := fx.CreateOrganization(ctx, "Sin Miembros")
	org := fx.CreateOrganization(ctx, "Ajustes Boricua")
	u1, _ := fx.CreateMember(ctx, org.ID, "admin@ajustes-boricua.internal", models.RoleAdmin, "secret-password")
	u2, _ := fx.CreateMember(ctx, org.ID, "usuario1@ajustes-boricua.internal", models.RoleCoAdmin, "secret-password")

	d := notify.New(db, zap.NewNop())
	msg := notify.Message{Type: models.NotifyClaimStatusChanged, Title: "Estado cambiado"}.Entity("CLIENT", "SJ20240101JP")

	n, err := d.NotifyOrganization(ctx, empty.ID, msg)
	if err != nil || n != 0 {
		t.Fatalf("empty org: n=%d err=%v, want 0 nil", n, err)
	}

	n, err = d.NotifyOrganization(ctx, org.ID, msg)
	if err != nil {
		t.Fatalf("NotifyOrganization: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}

	notes := notificationstore.New(db)
	for _, u := range []models.User{u1, u2} {
		list, err := notes.ListForUser(ctx, org.ID, u.ID)
		if err != nil {
			t.Fatalf("ListForUser: %v", err)
		}
		if len(list) != 1 || list[0].Title != "Estado cambiado" || list[0].Type != models.NotifyClaimStatusChanged {
			t.Errorf("user %s got %+v", u.ID.Hex(), list)
		}
	}
}
