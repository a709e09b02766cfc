// internal/app/store/claimstatuses/claimstatusstore.go
package claimstatusstore

import (
	"context"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound      = apperr.NotFound("claim status")
	ErrDuplicateName = apperr.Conflict("a claim status with that name already exists")
	ErrBuiltIn       = apperr.Conflict("that name is a built-in claim status")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("custom_claim_statuses")}
}

// Create adds a custom status. Names are stored as given (callers
// normalize to upper case) and may not shadow a built-in status.
func (s *Store) Create(ctx context.Context, cs models.CustomClaimStatus) (models.CustomClaimStatus, error) {
	if models.IsDefaultClaimStatus(cs.Name) {
		return models.CustomClaimStatus{}, ErrBuiltIn
	}
	now := time.Now().UTC()
	cs.ID = primitive.NewObjectID()
	cs.CreatedAt = now
	cs.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, cs); err != nil {
		if wafflemongo.IsDup(err) {
			return models.CustomClaimStatus{}, ErrDuplicateName
		}
		return models.CustomClaimStatus{}, err
	}
	return cs, nil
}

// List returns every custom status of orgID in display order.
func (s *Store) List(ctx context.Context, orgID primitive.ObjectID) ([]models.CustomClaimStatus, error) {
	return s.find(ctx, bson.M{"organization_id": orgID})
}

// ListActive returns the active custom statuses of orgID in display order.
func (s *Store) ListActive(ctx context.Context, orgID primitive.ObjectID) ([]models.CustomClaimStatus, error) {
	return s.find(ctx, bson.M{"organization_id": orgID, "is_active": true})
}

// IsActiveName reports whether name is an active custom status of orgID.
func (s *Store) IsActiveName(ctx context.Context, orgID primitive.ObjectID, name string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"organization_id": orgID, "name": name, "is_active": true}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes a custom status. Clients already carrying it keep the
// value.
func (s *Store) Delete(ctx context.Context, orgID, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "organization_id": orgID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive toggles a custom status on or off.
func (s *Store) SetActive(ctx context.Context, orgID, id primitive.ObjectID, active bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "organization_id": orgID},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.CustomClaimStatus, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.CustomClaimStatus{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
