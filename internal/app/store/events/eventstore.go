// internal/app/store/events/eventstore.go
package eventstore

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

var ErrNotFound = apperr.NotFound("event")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// Create inserts an event; Status defaults to SCHEDULED.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	if e.Status == "" {
		e.Status = models.EventStatusScheduled
	}
	e.EventDate = e.EventDate.UTC()
	e.ReminderSent = false
	e.CreatedAt = now
	e.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// GetByID loads an event of orgID.
func (s *Store) GetByID(ctx context.Context, orgID, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	err := s.c.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Event{}, ErrNotFound
	}
	if err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// List returns orgID's events in date order. A non-nil from or to bounds
// event_date (inclusive).
func (s *Store) List(ctx context.Context, orgID primitive.ObjectID, from, to *time.Time) ([]models.Event, error) {
	filter := bson.M{"organization_id": orgID}
	if from != nil || to != nil {
		rng := bson.M{}
		if from != nil {
			rng["$gte"] = from.UTC()
		}
		if to != nil {
			rng["$lte"] = to.UTC()
		}
		filter["event_date"] = rng
	}
	return s.find(ctx, filter, chronological())
}

// ListByClient returns a client's events in date order.
func (s *Store) ListByClient(ctx context.Context, orgID primitive.ObjectID, clientID string) ([]models.Event, error) {
	return s.find(ctx, bson.M{"organization_id": orgID, "client_id": clientID}, chronological())
}

// Update applies upd and returns the event as stored afterwards. Moving
// an event re-arms its reminder.
func (s *Store) Update(ctx context.Context, orgID, id primitive.ObjectID, upd bson.M) (models.Event, error) {
	if set, ok := upd["$set"].(bson.M); ok {
		_, moved := set["event_date"]
		_, retimed := set["event_time"]
		if moved || retimed {
			set["reminder_sent"] = false
		}
	}
	var e models.Event
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "organization_id": orgID}, upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Event{}, ErrNotFound
	}
	if err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Delete removes an event. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, orgID, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "organization_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DueForReminder returns scheduled events across all organizations whose
// date falls in [from, until] and whose reminder has not been sent.
func (s *Store) DueForReminder(ctx context.Context, from, until time.Time, limit int64) ([]models.Event, error) {
	filter := bson.M{
		"status":        models.EventStatusScheduled,
		"reminder_sent": false,
		"event_date":    bson.M{"$gte": from.UTC(), "$lte": until.UTC()},
	}
	opts := chronological()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return s.find(ctx, filter, opts)
}

// MarkReminderSent flags an event so the reminder job skips it. It only
// matches while the flag is still false, so concurrent runs notify once.
func (s *Store) MarkReminderSent(ctx context.Context, orgID, id primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "organization_id": orgID, "reminder_sent": false},
		bson.M{"$set": bson.M{"reminder_sent": true}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func chronological() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}, {Key: "event_time", Value: 1}, {Key: "_id", Value: 1}})
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Event{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
