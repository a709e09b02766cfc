// internal/app/store/activitylogs/activitylogstore.go
package activitylogstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Recent list bounds.
const (
	DefaultRecent = 50
	MaxRecent     = 200
)

var ErrNotFound = apperr.NotFound("activity log")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activity_logs")}
}

// Create inserts a log. PerformedAt defaults to now.
func (s *Store) Create(ctx context.Context, a models.ActivityLog) (models.ActivityLog, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	if a.PerformedAt.IsZero() {
		a.PerformedAt = now
	}
	a.PerformedAt = a.PerformedAt.UTC()
	a.CreatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.ActivityLog{}, err
	}
	return a, nil
}

// GetByID loads a log of orgID.
func (s *Store) GetByID(ctx context.Context, orgID, id primitive.ObjectID) (models.ActivityLog, error) {
	var a models.ActivityLog
	err := s.c.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ActivityLog{}, ErrNotFound
	}
	if err != nil {
		return models.ActivityLog{}, err
	}
	return a, nil
}

// ListByClient returns a client's logs, most recent first.
func (s *Store) ListByClient(ctx context.Context, orgID primitive.ObjectID, clientID string) ([]models.ActivityLog, error) {
	return s.find(ctx, bson.M{"organization_id": orgID, "client_id": clientID}, newestFirst())
}

// Recent returns the organization's latest logs. limit is clamped to
// 1..MaxRecent, with 0 meaning DefaultRecent.
func (s *Store) Recent(ctx context.Context, orgID primitive.ObjectID, limit int) ([]models.ActivityLog, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecent
	case limit > MaxRecent:
		limit = MaxRecent
	}
	return s.find(ctx, bson.M{"organization_id": orgID}, newestFirst().SetLimit(int64(limit)))
}

// ListByTypes returns every client-linked log of orgID whose type is in
// types, most recent first.
func (s *Store) ListByTypes(ctx context.Context, orgID primitive.ObjectID, types []string) ([]models.ActivityLog, error) {
	filter := bson.M{
		"organization_id": orgID,
		"activity_type":   bson.M{"$in": types},
		"client_id":       bson.M{"$exists": true},
	}
	return s.find(ctx, filter, newestFirst())
}

// Update applies upd and returns the log as stored afterwards.
func (s *Store) Update(ctx context.Context, orgID, id primitive.ObjectID, upd bson.M) (models.ActivityLog, error) {
	// Logs carry created_at only; drop the updated_at stamp patch adds.
	if set, ok := upd["$set"].(bson.M); ok {
		delete(set, "updated_at")
		if len(set) == 0 {
			delete(upd, "$set")
		}
	}
	if len(upd) == 0 {
		return s.GetByID(ctx, orgID, id)
	}
	var a models.ActivityLog
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "organization_id": orgID}, upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ActivityLog{}, ErrNotFound
	}
	if err != nil {
		return models.ActivityLog{}, err
	}
	return a, nil
}

// Delete removes a log. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, orgID, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "organization_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "performed_at", Value: -1}, {Key: "_id", Value: -1}})
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.ActivityLog, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.ActivityLog{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
