// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/normalize"
	"github.com/dalemusser/claimdesk/internal/app/system/paging"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrDuplicateUsername = apperr.Conflict("that username is already taken")
	ErrNotFound          = apperr.NotFound("member")
	errBadRole           = errors.New(`role must be "ADMIN"|"CO_ADMIN"|"VENDEDOR"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("organization_members")}
}

// Create adds a membership. Usernames are unique across organizations.
func (s *Store) Create(ctx context.Context, m models.Member) (models.Member, error) {
	m.Role = normalize.Role(m.Role)
	if !models.IsValidRole(m.Role) {
		return models.Member{}, errBadRole
	}
	m.ID = primitive.NewObjectID()
	m.Username = normalize.Username(m.Username)
	m.UsernameCI = text.Fold(m.Username)
	m.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Member{}, ErrDuplicateUsername
		}
		return models.Member{}, err
	}
	return m, nil
}

// GetByUsername finds the membership a login handle belongs to.
func (s *Store) GetByUsername(ctx context.Context, username string) (models.Member, error) {
	return s.findOne(ctx, bson.M{"username_ci": text.Fold(normalize.Username(username))})
}

// GetByID loads a membership within orgID.
func (s *Store) GetByID(ctx context.Context, orgID, id primitive.ObjectID) (models.Member, error) {
	return s.findOne(ctx, bson.M{"_id": id, "organization_id": orgID})
}

// GetByUser loads userID's membership in orgID.
func (s *Store) GetByUser(ctx context.Context, orgID, userID primitive.ObjectID) (models.Member, error) {
	return s.findOne(ctx, bson.M{"user_id": userID, "organization_id": orgID})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, filter).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Member{}, ErrNotFound
	}
	if err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// ListByOrg returns every member of orgID ordered by username.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username_ci", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, bson.M{"organization_id": orgID}, opts)
}

// ListPage returns one keyset page of members ordered by username.
func (s *Store) ListPage(ctx context.Context, orgID primitive.ObjectID, before, after string) (paging.Page[models.Member], error) {
	cfg := paging.ConfigureKeyset(before, after)
	filter := bson.M{"organization_id": orgID}
	if w := cfg.KeysetWindow("username_ci"); w != nil {
		for k, v := range w {
			filter[k] = v
		}
	}
	find := options.Find()
	cfg.ApplyToFind(find, "username_ci")

	rows, err := s.find(ctx, filter, find)
	if err != nil {
		return paging.Page[models.Member]{}, err
	}
	return paging.Finish(rows, before, after,
		func(m models.Member) string { return m.UsernameCI },
		func(m models.Member) primitive.ObjectID { return m.ID },
	), nil
}

// UserIDs returns the user ids of every member of orgID.
func (s *Store) UserIDs(ctx context.Context, orgID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"user_id": 1}).SetSort(bson.D{{Key: "created_at", Value: 1}})
	rows, err := s.find(ctx, bson.M{"organization_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}

// IsMember reports whether userID belongs to orgID.
func (s *Store) IsMember(ctx context.Context, orgID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"organization_id": orgID, "user_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns how many members orgID has.
func (s *Store) Count(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"organization_id": orgID})
}

// UpdateRole changes a member's role.
func (s *Store) UpdateRole(ctx context.Context, orgID, id primitive.ObjectID, role string) error {
	role = normalize.Role(role)
	if !models.IsValidRole(role) {
		return errBadRole
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "organization_id": orgID}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a membership. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, orgID, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "organization_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Member, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
