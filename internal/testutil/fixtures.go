package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateOrganization creates a test organization with the given name.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Slug:         text.Fold(name),
		BusinessType: "public_adjuster",
		TimeZone:     "America/Puerto_Rico",
		MaxMembers:   models.DefaultMaxMembers,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateMember creates a user and its membership in orgID with the given
// role. The password is hashed at minimum cost to keep tests fast.
func (f *Fixtures) CreateMember(ctx context.Context, orgID primitive.ObjectID, username, role, password string) (models.User, models.Member) {
	f.t.Helper()

	now := time.Now().UTC()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}
	email := username
	user := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     username,
		FullNameCI:   text.Fold(username),
		Email:        &email,
		LoginMethod:  "password",
		PasswordHash: string(hash),
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	member := models.Member{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		UserID:         user.ID,
		Role:           role,
		Username:       username,
		UsernameCI:     text.Fold(username),
		CreatedAt:      now,
	}
	if _, err := f.db.Collection("organization_members").InsertOne(ctx, member); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return user, member
}

// CreateClient inserts c as-is after filling in required bookkeeping fields.
// The caller supplies c.ID.
func (f *Fixtures) CreateClient(ctx context.Context, orgID primitive.ObjectID, c models.Client) models.Client {
	f.t.Helper()

	now := time.Now().UTC()
	c.OrganizationID = orgID
	c.FullNameCI = text.Fold(c.FullName())
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if _, err := f.db.Collection("clients").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test client: %v", err)
	}
	return c
}
