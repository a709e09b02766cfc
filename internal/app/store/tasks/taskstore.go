// internal/app/store/tasks/taskstore.go
package taskstore

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

var ErrNotFound = apperr.NotFound("task")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

// Create inserts a task. Status defaults to PENDIENTE; a task created
// already completed gets CompletedAt.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	if t.Status == "" {
		t.Status = models.TaskStatusPendiente
	}
	if t.Status == models.TaskStatusCompletada && t.CompletedAt == nil {
		t.CompletedAt = &now
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// GetByID loads a task of orgID.
func (s *Store) GetByID(ctx context.Context, orgID, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	err := s.c.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// ListFilter narrows List. Empty fields do not filter.
type ListFilter struct {
	Status     string
	AssignedTo *primitive.ObjectID
	ClientID   string
}

// List returns orgID's tasks: open ones by due date (undated last), then
// the rest by most recently updated.
func (s *Store) List(ctx context.Context, orgID primitive.ObjectID, f ListFilter) ([]models.Task, error) {
	filter := bson.M{"organization_id": orgID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.AssignedTo != nil {
		filter["assigned_to"] = *f.AssignedTo
	}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	tasks, err := s.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	SortForDisplay(tasks)
	return tasks, nil
}

// Update applies upd and returns the task as stored afterwards.
func (s *Store) Update(ctx context.Context, orgID, id primitive.ObjectID, upd bson.M) (models.Task, error) {
	var t models.Task
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "organization_id": orgID}, upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Delete removes a task. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, orgID, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "organization_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByRule counts tasks generated by ruleID for clientID.
func (s *Store) CountByRule(ctx context.Context, orgID, ruleID primitive.ObjectID, clientID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"organization_id": orgID, "automation_rule_id": ruleID, "client_id": clientID})
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Task, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Task{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
