package clientstore_test

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	"github.com/dalemusser/claimdesk/internal/app/system/patch"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/claimdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strp(s string) *string { return &s }

func TestStore_Create_AssignsCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clientstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := primitive.NewObjectID()

	c, err := store.Create(ctx, models.Client{OrganizationID: org, FirstName: "Juan", LastName: "Delgado", City: strp("San Juan")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	today := time.Now().UTC().Format("20060102")
	if want := "SA" + today + "JD"; c.ID != want {
		t.Errorf("ID = %q, want %q", c.ID, want)
	}
	if c.ClaimStatus != models.ClaimNoSometida || c.Suplementado != models.SuplementadoNo || c.PrimerCheque != models.PrimerChequePendiente {
		t.Errorf("defaults not applied: %+v", c)
	}

	again, err := store.Create(ctx, models.Client{OrganizationID: org, FirstName: "Julia", LastName: "Diaz", City: strp("Santurce")})
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if !strings.HasSuffix(again.ID, "-2") {
		t.Errorf("second ID = %q, want -2 suffix", again.ID)
	}
}

func TestStore_Create_ConcurrentSameInputs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clientstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := primitive.NewObjectID()

	const n = 5
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := store.Create(ctx, models.Client{OrganizationID: org, FirstName: "Ana", LastName: "Soto", City: strp("Ponce")})
			if err != nil {
				t.Errorf("Create failed: %v", err)
				return
			}
			ids[i] = c.ID
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Errorf("id %q assigned twice", id)
		}
		seen[id] = true
	}
}

func TestStore_GetByID_ScopedToOrg(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clientstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := primitive.NewObjectID()

	c, err := store.Create(ctx, models.Client{OrganizationID: org, FirstName: "Luis", LastName: "Ortiz"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.GetByID(ctx, org, c.ID); err != nil {
		t.Errorf("GetByID failed: %v", err)
	}
	if _, err := store.GetByID(ctx, primitive.NewObjectID(), c.ID); !errors.Is(err, clientstore.ErrNotFound) {
		t.Errorf("GetByID from another org: got %v, want ErrNotFound", err)
	}
}

func TestStore_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clientstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := primitive.NewObjectID()

	jose, _ := store.Create(ctx, models.Client{OrganizationID: org, FirstName: "José", LastName: "Pérez", City: strp("Ponce"), Phone: strp("787-555-0101")})
	_, _ = store.Create(ctx, models.Client{OrganizationID: org, FirstName: "Maria", LastName: "Lopez", ClaimNumber: strp("CLM-42")})
	_, _ = store.Create(ctx, models.Client{OrganizationID: primitive.NewObjectID(), FirstName: "Jose", LastName: "Other"})

	tests := []struct {
		q    string
		want int
	}{
		{"jose", 1},
		{"PEREZ", 1},
		{"555-0101", 1},
		{"clm-42", 1},
		{strings.ToLower(jose.ID[:4]), 1},
		{"nobody", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			got, err := store.Search(ctx, org, tt.q)
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Search(%q) returned %d, want %d", tt.q, len(got), tt.want)
			}
		})
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clientstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := primitive.NewObjectID()

	c, _ := store.Create(ctx, models.Client{OrganizationID: org, FirstName: "Old", LastName: "Name", Email: strp("a@b.com")})

	upd, err := patch.New().
		Required("first_name", "First name", strp("Nueva")).
		Text("email", strp("")).
		Set("claim_status", models.ClaimSometida).
		Update(time.Now())
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	got, err := store.Update(ctx, org, c.ID, upd)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.FirstName != "Nueva" || got.Email != nil || got.ClaimStatus != models.ClaimSometida {
		t.Errorf("unexpected client after update: %+v", got)
	}
	if got.FullNameCI != "nueva name" {
		t.Errorf("FullNameCI = %q, want %q", got.FullNameCI, "nueva name")
	}
	if got.ID != c.ID {
		t.Error("id must not change")
	}

	if _, err := store.Update(ctx, primitive.NewObjectID(), c.ID, bson.M{"$set": bson.M{"notes": "x"}}); !errors.Is(err, clientstore.ErrNotFound) {
		t.Errorf("Update from another org: got %v", err)
	}
}

func TestStore_TouchLastContact(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clientstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := primitive.NewObjectID()

	c, _ := store.Create(ctx, models.Client{OrganizationID: org, FirstName: "A", LastName: "B"})
	later := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	earlier := later.Add(-48 * time.Hour)

	if err := store.TouchLastContact(ctx, org, c.ID, later); err != nil {
		t.Fatalf("TouchLastContact failed: %v", err)
	}
	if err := store.TouchLastContact(ctx, org, c.ID, earlier); err != nil {
		t.Fatalf("TouchLastContact failed: %v", err)
	}
	got, _ := store.GetByID(ctx, org, c.ID)
	if got.LastContactDate == nil || !got.LastContactDate.Equal(later) {
		t.Errorf("LastContactDate = %v, want %v", got.LastContactDate, later)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clientstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := primitive.NewObjectID()

	c, _ := store.Create(ctx, models.Client{OrganizationID: org, FirstName: "A", LastName: "B"})
	if n, _ := store.Delete(ctx, primitive.NewObjectID(), c.ID); n != 0 {
		t.Error("delete from another org must not remove the client")
	}
	if n, err := store.Delete(ctx, org, c.ID); err != nil || n != 1 {
		t.Errorf("Delete = %d, %v", n, err)
	}
}
