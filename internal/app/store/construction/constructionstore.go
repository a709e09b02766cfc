// internal/app/store/construction/constructionstore.go
package constructionstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/paging"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SearchLimit caps search results.
const SearchLimit = 50

var (
	ErrNotFound        = apperr.NotFound("construction project")
	ErrDuplicateClient = apperr.Conflict("client already has a construction project")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("construction_projects")}
}

func defaults(p *models.ConstructionProject) {
	if p.PermitStatus == "" {
		p.PermitStatus = models.PermitPendiente
	}
	if p.ProjectStatus == "" {
		p.ProjectStatus = models.ProjectPlanificacion
	}
	p.ProjectNameCI = text.Fold(p.ProjectName)
}

// Create inserts a project. A second project for the same client
// returns ErrDuplicateClient.
func (s *Store) Create(ctx context.Context, p models.ConstructionProject) (models.ConstructionProject, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	defaults(&p)
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ConstructionProject{}, ErrDuplicateClient
		}
		return models.ConstructionProject{}, err
	}
	return p, nil
}

// ProjectName is the default name for a client's project.
func ProjectName(c models.Client) string {
	if name := strings.TrimSpace(c.FullName()); name != "" {
		return name
	}
	return "Cliente " + c.ID
}

// EnsureForClient makes sure client has a project and returns it.
// created reports whether this call inserted it.
func (s *Store) EnsureForClient(ctx context.Context, c models.Client, actor primitive.ObjectID) (p models.ConstructionProject, created bool, err error) {
	now := time.Now().UTC()
	seed := models.ConstructionProject{
		ID:              primitive.NewObjectID(),
		OrganizationID:  c.OrganizationID,
		ClientID:        &c.ID,
		ProjectName:     ProjectName(c),
		PropertyAddress: c.PropertyAddress,
		CreatedBy:       actor,
		UpdatedBy:       actor,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	defaults(&seed)

	filter := bson.M{"organization_id": c.OrganizationID, "client_id": c.ID}
	opts := options.Update().SetUpsert(true)
	var res *mongo.UpdateResult
	// Two concurrent upserts can both miss and race on the unique index;
	// the loser retries and matches the winner's document.
	for attempt := 0; attempt < 2; attempt++ {
		res, err = s.c.UpdateOne(ctx, filter, bson.M{"$setOnInsert": seed}, opts)
		if err == nil || !wafflemongo.IsDup(err) {
			break
		}
	}
	if err != nil {
		return models.ConstructionProject{}, false, err
	}
	if err := s.c.FindOne(ctx, filter).Decode(&p); err != nil {
		return models.ConstructionProject{}, false, err
	}
	return p, res.UpsertedCount == 1, nil
}

func (s *Store) GetByID(ctx context.Context, orgID, id primitive.ObjectID) (models.ConstructionProject, error) {
	return s.findOne(ctx, bson.M{"_id": id, "organization_id": orgID})
}

func (s *Store) GetByClient(ctx context.Context, orgID primitive.ObjectID, clientID string) (models.ConstructionProject, error) {
	return s.findOne(ctx, bson.M{"organization_id": orgID, "client_id": clientID})
}

// ListPage returns one keyset page of projects ordered by name.
func (s *Store) ListPage(ctx context.Context, orgID primitive.ObjectID, status, before, after string) (paging.Page[models.ConstructionProject], error) {
	cfg := paging.ConfigureKeyset(before, after)
	filter := bson.M{"organization_id": orgID}
	if status != "" {
		filter["project_status"] = status
	}
	if w := cfg.KeysetWindow("project_name_ci"); w != nil {
		for k, v := range w {
			filter[k] = v
		}
	}
	find := options.Find()
	cfg.ApplyToFind(find, "project_name_ci")

	rows, err := s.find(ctx, filter, find)
	if err != nil {
		return paging.Page[models.ConstructionProject]{}, err
	}
	return paging.Finish(rows, before, after,
		func(p models.ConstructionProject) string { return p.ProjectNameCI },
		func(p models.ConstructionProject) primitive.ObjectID { return p.ID },
	), nil
}

// Search matches q against project name, client id, address, contractor
// and permit number.
func (s *Store) Search(ctx context.Context, orgID primitive.ObjectID, q string) ([]models.ConstructionProject, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.ConstructionProject{}, nil
	}
	raw := regexp.QuoteMeta(q)
	filter := bson.M{
		"organization_id": orgID,
		"$or": bson.A{
			bson.M{"project_name_ci": bson.M{"$regex": regexp.QuoteMeta(text.Fold(q))}},
			bson.M{"client_id": bson.M{"$regex": "^" + strings.ToUpper(raw)}},
			bson.M{"property_address": bson.M{"$regex": raw, "$options": "i"}},
			bson.M{"contractor": bson.M{"$regex": raw, "$options": "i"}},
			bson.M{"permit_number": bson.M{"$regex": raw, "$options": "i"}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "project_name_ci", Value: 1}, {Key: "_id", Value: 1}}).SetLimit(SearchLimit)
	return s.find(ctx, filter, opts)
}

// Update applies upd and returns the project as stored afterwards.
func (s *Store) Update(ctx context.Context, orgID, id primitive.ObjectID, upd bson.M) (models.ConstructionProject, error) {
	if set, ok := upd["$set"].(bson.M); ok {
		if name, ok := set["project_name"].(string); ok {
			set["project_name_ci"] = text.Fold(name)
		}
	}
	var p models.ConstructionProject
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "organization_id": orgID}, upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ConstructionProject{}, ErrNotFound
	}
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.ConstructionProject{}, ErrDuplicateClient
		}
		return models.ConstructionProject{}, err
	}
	return p, nil
}

// Delete removes a project. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, orgID, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "organization_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.ConstructionProject, error) {
	var p models.ConstructionProject
	err := s.c.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ConstructionProject{}, ErrNotFound
	}
	if err != nil {
		return models.ConstructionProject{}, err
	}
	return p, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.ConstructionProject, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.ConstructionProject{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
