package organizationstore_test

import (
	"errors"
	"testing"

	organizationstore "github.com/dalemusser/claimdesk/internal/app/store/organizations"
	"github.com/dalemusser/claimdesk/internal/app/system/indexes"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Organization{Name: "Ajustes Boricua", Slug: "ajustes-boricua"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI != "ajustes boricua" {
		t.Errorf("NameCI = %q", created.NameCI)
	}
	if created.MaxMembers != models.DefaultMaxMembers {
		t.Errorf("MaxMembers = %d, want %d", created.MaxMembers, models.DefaultMaxMembers)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Slug != "ajustes-boricua" {
		t.Errorf("Slug = %q", got.Slug)
	}
}

func TestStore_Create_DuplicateSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := organizationstore.New(db)

	if _, err := store.Create(ctx, models.Organization{Name: "Acme", Slug: "acme"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Organization{Name: "ACME", Slug: "acme"})
	if !errors.Is(err, organizationstore.ErrDuplicateSlug) {
		t.Errorf("expected ErrDuplicateSlug, got %v", err)
	}

	exists, err := store.SlugExists(ctx, "acme")
	if err != nil || !exists {
		t.Errorf("SlugExists = %v, %v; want true", exists, err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, organizationstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_UpdateAndOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org, err := store.Create(ctx, models.Organization{Name: "Old", Slug: "old"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	owner := primitive.NewObjectID()
	if err := store.SetOwner(ctx, org.ID, owner); err != nil {
		t.Fatalf("SetOwner failed: %v", err)
	}
	upd, err := store.Update(ctx, org.ID, models.Organization{Name: "New Name", TimeZone: "America/Puerto_Rico"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if upd.Name != "New Name" || upd.TimeZone != "America/Puerto_Rico" || upd.OwnerID != owner {
		t.Errorf("unexpected org after update: %+v", upd)
	}
}
