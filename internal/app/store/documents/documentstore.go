// internal/app/store/documents/documentstore.go
package documentstore

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

var ErrNotFound = apperr.NotFound("document")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("documents")}
}

func (s *Store) Create(ctx context.Context, d models.Document) (models.Document, error) {
	d.ID = primitive.NewObjectID()
	d.UploadedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Document{}, err
	}
	return d, nil
}

func (s *Store) GetByID(ctx context.Context, orgID, id primitive.ObjectID) (models.Document, error) {
	var d models.Document
	err := s.c.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Document{}, ErrNotFound
	}
	if err != nil {
		return models.Document{}, err
	}
	return d, nil
}

func (s *Store) ListByClient(ctx context.Context, orgID primitive.ObjectID, clientID string) ([]models.Document, error) {
	return s.find(ctx, bson.M{"organization_id": orgID, "client_id": clientID})
}

func (s *Store) ListByProject(ctx context.Context, orgID, projectID primitive.ObjectID) ([]models.Document, error) {
	return s.find(ctx, bson.M{"organization_id": orgID, "construction_project_id": projectID})
}

// ClientIDsWithType returns the set of client ids that have at least one
// document of docType.
func (s *Store) ClientIDsWithType(ctx context.Context, orgID primitive.ObjectID, docType string) (map[string]bool, error) {
	vals, err := s.c.Distinct(ctx, "client_id", bson.M{
		"organization_id": orgID,
		"document_type":   docType,
		"client_id":       bson.M{"$exists": true},
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(vals))
	for _, v := range vals {
		if id, ok := v.(string); ok && id != "" {
			out[id] = true
		}
	}
	return out, nil
}

// Delete removes a document and returns it so the caller can clean up
// the stored object.
func (s *Store) Delete(ctx context.Context, orgID, id primitive.ObjectID) (models.Document, error) {
	var d models.Document
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Document{}, ErrNotFound
	}
	if err != nil {
		return models.Document{}, err
	}
	return d, nil
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Document, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Document{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
