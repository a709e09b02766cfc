package claimstatusstore_test

import (
	"errors"
	"testing"

	claimstatusstore "github.com/dalemusser/claimdesk/internal/app/store/claimstatuses"
	"github.com/dalemusser/claimdesk/internal/app/system/indexes"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := claimstatusstore.New(db)
	org := primitive.NewObjectID()

	mediacion, err := store.Create(ctx, models.CustomClaimStatus{OrganizationID: org, Name: "EN_MEDIACION", DisplayName: "En mediación", SortOrder: 2, IsActive: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, _ = store.Create(ctx, models.CustomClaimStatus{OrganizationID: org, Name: "PAUSADO", DisplayName: "Pausado", SortOrder: 1, IsActive: false})

	tests := []struct {
		name string
		cs   models.CustomClaimStatus
		want error
	}{
		{"duplicate", models.CustomClaimStatus{OrganizationID: org, Name: "EN_MEDIACION", DisplayName: "x", IsActive: true}, claimstatusstore.ErrDuplicateName},
		{"built in", models.CustomClaimStatus{OrganizationID: org, Name: models.ClaimSometida, DisplayName: "x"}, claimstatusstore.ErrBuiltIn},
		{"sentinel", models.CustomClaimStatus{OrganizationID: org, Name: models.ClaimListaParaConstruir, DisplayName: "x"}, claimstatusstore.ErrBuiltIn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Create(ctx, tt.cs); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	all, _ := store.List(ctx, org)
	if len(all) != 2 || all[0].Name != "PAUSADO" {
		t.Errorf("List should be in sort order, got %+v", all)
	}
	active, _ := store.ListActive(ctx, org)
	if len(active) != 1 {
		t.Errorf("ListActive = %d, want 1", len(active))
	}
	if ok, _ := store.IsActiveName(ctx, org, "EN_MEDIACION"); !ok {
		t.Error("EN_MEDIACION should be active")
	}
	if ok, _ := store.IsActiveName(ctx, org, "PAUSADO"); ok {
		t.Error("PAUSADO is inactive")
	}
	if ok, _ := store.IsActiveName(ctx, primitive.NewObjectID(), "EN_MEDIACION"); ok {
		t.Error("custom statuses must not leak across organizations")
	}

	if err := store.Delete(ctx, org, mediacion.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, org, mediacion.ID); !errors.Is(err, claimstatusstore.ErrNotFound) {
		t.Errorf("second Delete: got %v", err)
	}
}
