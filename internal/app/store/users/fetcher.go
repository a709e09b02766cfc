package userstore

import (
	"context"

	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
// The role always comes from the membership, so a role change or removal
// takes effect on the member's next request.
type Fetcher struct {
	users   *mongo.Collection
	members *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{
		users:   db.Collection("users"),
		members: db.Collection("organization_members"),
	}
}

// FetchUser returns nil if the user is missing or disabled, is no longer a
// member of orgID, or any error occurs.
func (f *Fetcher) FetchUser(ctx context.Context, userID, orgID string) *auth.SessionUser {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(orgID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{"_id": 1, "full_name": 1, "status": 1})
	if err := f.users.FindOne(ctx, bson.M{"_id": uid}, proj).Decode(&u); err != nil {
		return nil
	}
	if normalize.Status(u.Status) == StatusDisabled {
		return nil
	}

	var m models.Member
	if err := f.members.FindOne(ctx, bson.M{"user_id": uid, "organization_id": oid}).Decode(&m); err != nil {
		return nil
	}

	return &auth.SessionUser{
		ID:             u.ID.Hex(),
		Name:           u.FullName,
		LoginID:        m.Username,
		Role:           normalize.Role(m.Role),
		OrganizationID: m.OrganizationID.Hex(),
	}
}
