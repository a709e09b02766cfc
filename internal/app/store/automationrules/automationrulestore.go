// internal/app/store/automationrules/automationrulestore.go
package automationrulestore

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

var ErrNotFound = apperr.NotFound("automation rule")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activity_automation_rules")}
}

func (s *Store) Create(ctx context.Context, r models.AutomationRule) (models.AutomationRule, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.AutomationRule{}, err
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, orgID, id primitive.ObjectID) (models.AutomationRule, error) {
	var r models.AutomationRule
	err := s.c.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AutomationRule{}, ErrNotFound
	}
	if err != nil {
		return models.AutomationRule{}, err
	}
	return r, nil
}

// List returns every rule of orgID by activity type, then creation.
func (s *Store) List(ctx context.Context, orgID primitive.ObjectID) ([]models.AutomationRule, error) {
	return s.find(ctx, bson.M{"organization_id": orgID},
		options.Find().SetSort(bson.D{{Key: "activity_type", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
}

// ActiveFor returns the active rules for activityType in the order they
// were created.
func (s *Store) ActiveFor(ctx context.Context, orgID primitive.ObjectID, activityType string) ([]models.AutomationRule, error) {
	return s.find(ctx, bson.M{"organization_id": orgID, "activity_type": activityType, "is_active": true},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
}

// Update applies upd and returns the rule as stored afterwards.
func (s *Store) Update(ctx context.Context, orgID, id primitive.ObjectID, upd bson.M) (models.AutomationRule, error) {
	var r models.AutomationRule
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id, "organization_id": orgID}, upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AutomationRule{}, ErrNotFound
	}
	if err != nil {
		return models.AutomationRule{}, err
	}
	return r, nil
}

// Delete removes a rule. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, orgID, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "organization_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ClearRole detaches roleID from every rule that routes through it, so
// those rules create unassigned tasks.
func (s *Store) ClearRole(ctx context.Context, orgID, roleID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"organization_id": orgID, "role_id": roleID},
		bson.M{"$unset": bson.M{"role_id": ""}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.AutomationRule, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.AutomationRule{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
