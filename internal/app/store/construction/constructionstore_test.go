package constructionstore_test

import (
	"errors"
	"sync"
	"testing"

	constructionstore "github.com/dalemusser/claimdesk/internal/app/store/construction"
	"github.com/dalemusser/claimdesk/internal/app/system/indexes"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func setup(t *testing.T) (*mongo.Database, *constructionstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return db, constructionstore.New(db)
}

func TestProjectName(t *testing.T) {
	tests := []struct {
		name   string
		client models.Client
		want   string
	}{
		{"full name", models.Client{ID: "SJ1", FirstName: "Ana", LastName: "Ruiz"}, "Ana Ruiz"},
		{"first only", models.Client{ID: "SJ1", FirstName: "Ana"}, "Ana"},
		{"blank", models.Client{ID: "XX20260101XX", FirstName: " "}, "Cliente XX20260101XX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := constructionstore.ProjectName(tt.client); got != tt.want {
				t.Errorf("ProjectName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStore_EnsureForClient(t *testing.T) {
	_, store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor := primitive.NewObjectID()
	client := models.Client{ID: "PO20260301JR", OrganizationID: primitive.NewObjectID(), FirstName: "José", LastName: "Rivera"}

	p, created, err := store.EnsureForClient(ctx, client, actor)
	if err != nil {
		t.Fatalf("EnsureForClient failed: %v", err)
	}
	if !created {
		t.Error("first call should create")
	}
	if p.ProjectName != "José Rivera" || p.ProjectStatus != models.ProjectPlanificacion || p.PermitStatus != models.PermitPendiente {
		t.Errorf("unexpected project: %+v", p)
	}

	again, created, err := store.EnsureForClient(ctx, client, actor)
	if err != nil {
		t.Fatalf("second EnsureForClient failed: %v", err)
	}
	if created || again.ID != p.ID {
		t.Error("second call should return the existing project")
	}
}

func TestStore_EnsureForClient_Concurrent(t *testing.T) {
	db, store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	client := models.Client{ID: "SJ20260301AB", OrganizationID: primitive.NewObjectID(), FirstName: "A", LastName: "B"}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := store.EnsureForClient(ctx, client, primitive.NewObjectID()); err != nil {
				t.Errorf("EnsureForClient failed: %v", err)
			}
		}()
	}
	wg.Wait()

	n, _ := db.Collection("construction_projects").CountDocuments(ctx, bson.M{"client_id": client.ID})
	if n != 1 {
		t.Errorf("got %d projects, want 1", n)
	}
}

func TestStore_CRUDAndSearch(t *testing.T) {
	_, store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := primitive.NewObjectID()
	actor := primitive.NewObjectID()
	cid := "SJ20260101ZZ"
	contractor := "Techos Borinquen"

	p, err := store.Create(ctx, models.ConstructionProject{OrganizationID: org, ClientID: &cid, ProjectName: "Casa Zayas", Contractor: &contractor, CreatedBy: actor, UpdatedBy: actor})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.ConstructionProject{OrganizationID: org, ClientID: &cid, ProjectName: "dup", CreatedBy: actor, UpdatedBy: actor}); !errors.Is(err, constructionstore.ErrDuplicateClient) {
		t.Errorf("second project for client: got %v, want ErrDuplicateClient", err)
	}

	for _, q := range []string{"zayas", "SJ2026", "borinquen"} {
		got, err := store.Search(ctx, org, q)
		if err != nil || len(got) != 1 {
			t.Errorf("Search(%q) = %d, %v", q, len(got), err)
		}
	}

	upd, err := store.Update(ctx, org, p.ID, bson.M{"$set": bson.M{"project_name": "Residencia Zayas", "project_status": models.ProjectEnProgreso}})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if upd.ProjectNameCI != "residencia zayas" {
		t.Errorf("ProjectNameCI = %q", upd.ProjectNameCI)
	}

	page, err := store.ListPage(ctx, org, models.ProjectEnProgreso, "", "")
	if err != nil || len(page.Items) != 1 {
		t.Fatalf("ListPage = %d, %v", len(page.Items), err)
	}

	if _, err := store.GetByClient(ctx, primitive.NewObjectID(), cid); !errors.Is(err, constructionstore.ErrNotFound) {
		t.Errorf("GetByClient from another org: got %v", err)
	}
	if n, _ := store.Delete(ctx, org, p.ID); n != 1 {
		t.Error("expected project deleted")
	}
}
