// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListLimit caps how many notifications a user sees.
const ListLimit = 200

var ErrNotFound = apperr.NotFound("notification")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// InsertMany writes ns in one batch, assigning ids and created_at.
// An empty slice is a no-op.
func (s *Store) InsertMany(ctx context.Context, ns []models.Notification) ([]models.Notification, error) {
	if len(ns) == 0 {
		return ns, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(ns))
	for i := range ns {
		ns[i].ID = primitive.NewObjectID()
		if ns[i].CreatedAt.IsZero() {
			ns[i].CreatedAt = now
		}
		docs[i] = ns[i]
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return ns, nil
}

// ListForUser returns the user's latest notifications in orgID.
func (s *Store) ListForUser(ctx context.Context, orgID, userID primitive.ObjectID) ([]models.Notification, error) {
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID, "user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
			SetLimit(ListLimit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UnreadCount(ctx context.Context, orgID, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"organization_id": orgID, "user_id": userID, "read_at": bson.M{"$exists": false}})
}

// MarkRead marks one of the user's notifications read. Marking an
// already read notification keeps its original read time.
func (s *Store) MarkRead(ctx context.Context, orgID, userID, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "organization_id": orgID, "user_id": userID},
		bson.A{bson.M{"$set": bson.M{"read_at": bson.M{"$ifNull": bson.A{"$read_at", "$$NOW"}}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user read and
// returns how many changed.
func (s *Store) MarkAllRead(ctx context.Context, orgID, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"organization_id": orgID, "user_id": userID, "read_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"read_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
