// internal/app/store/clients/clientstore.go
package clientstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/clientid"
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
	ErrNotFound = apperr.NotFound("client")
	ErrNoFreeID = apperr.Conflict("could not allocate a client id, try again")
)

type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("clients"), now: time.Now}
}

// Create assigns the client a code (see clientid) and inserts it. A code
// already used by another client moves on to the next suffix, so two
// concurrent creates for the same person never share an id.
func (s *Store) Create(ctx context.Context, c models.Client) (models.Client, error) {
	now := s.now().UTC()
	c.FullNameCI = text.Fold(c.FullName())
	if c.ClaimStatus == "" {
		c.ClaimStatus = models.ClaimNoSometida
	}
	if c.Suplementado == "" {
		c.Suplementado = models.SuplementadoNo
	}
	if c.PrimerCheque == "" {
		c.PrimerCheque = models.PrimerChequePendiente
	}
	c.CreatedAt = now
	c.UpdatedAt = now

	city := ""
	if c.City != nil {
		city = *c.City
	}
	base := clientid.Base(city, c.FirstName, c.LastName, now)

	id, err := clientid.Assign(ctx, base, func(ctx context.Context, id string) error {
		c.ID = id
		_, err := s.c.InsertOne(ctx, c)
		if wafflemongo.IsDup(err) {
			return fmt.Errorf("insert client %s: %w", id, clientid.ErrTaken)
		}
		return err
	})
	if errors.Is(err, clientid.ErrExhausted) {
		return models.Client{}, ErrNoFreeID
	}
	if err != nil {
		return models.Client{}, err
	}
	c.ID = id
	return c, nil
}

// GetByID loads a client of orgID.
func (s *Store) GetByID(ctx context.Context, orgID primitive.ObjectID, id string) (models.Client, error) {
	var c models.Client
	err := s.c.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Client{}, ErrNotFound
	}
	if err != nil {
		return models.Client{}, err
	}
	return c, nil
}

// Exists reports whether id is a client of orgID.
func (s *Store) Exists(ctx context.Context, orgID primitive.ObjectID, id string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id, "organization_id": orgID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns every client of orgID, newest first.
func (s *Store) List(ctx context.Context, orgID primitive.ObjectID) ([]models.Client, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	return s.find(ctx, bson.M{"organization_id": orgID}, opts)
}

// Search matches q against the client code, folded full name, phone,
// email and claim number.
func (s *Store) Search(ctx context.Context, orgID primitive.ObjectID, q string) ([]models.Client, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Client{}, nil
	}
	raw := regexp.QuoteMeta(q)
	folded := regexp.QuoteMeta(text.Fold(q))
	filter := bson.M{
		"organization_id": orgID,
		"$or": bson.A{
			bson.M{"_id": bson.M{"$regex": "^" + strings.ToUpper(raw)}},
			bson.M{"full_name_ci": bson.M{"$regex": folded}},
			bson.M{"phone": bson.M{"$regex": raw}},
			bson.M{"email": bson.M{"$regex": raw, "$options": "i"}},
			bson.M{"claim_number": bson.M{"$regex": raw, "$options": "i"}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}).SetLimit(SearchLimit)
	return s.find(ctx, filter, opts)
}

// Update applies upd (built with system/patch) and returns the client as
// stored afterwards. full_name_ci is kept in step with name changes.
func (s *Store) Update(ctx context.Context, orgID primitive.ObjectID, id string, upd bson.M) (models.Client, error) {
	filter := bson.M{"_id": id, "organization_id": orgID}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Client
	err := s.c.FindOneAndUpdate(ctx, filter, upd, opts).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Client{}, ErrNotFound
	}
	if err != nil {
		return models.Client{}, err
	}
	if ci := text.Fold(c.FullName()); ci != c.FullNameCI {
		if _, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"full_name_ci": ci}}); err != nil {
			return models.Client{}, err
		}
		c.FullNameCI = ci
	}
	return c, nil
}

// TouchLastContact moves last_contact_date forward to at. Earlier dates
// never overwrite a later one.
func (s *Store) TouchLastContact(ctx context.Context, orgID primitive.ObjectID, id string, at time.Time) error {
	filter := bson.M{
		"_id":             id,
		"organization_id": orgID,
		"$or": bson.A{
			bson.M{"last_contact_date": bson.M{"$exists": false}},
			bson.M{"last_contact_date": bson.M{"$lt": at.UTC()}},
		},
	}
	_, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"last_contact_date": at.UTC()}})
	return err
}

// Delete removes a client. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, orgID primitive.ObjectID, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "organization_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Find returns clients matching filter. The organization filter is always
// applied on top.
func (s *Store) Find(ctx context.Context, orgID primitive.ObjectID, filter bson.M, opts ...*options.FindOptions) ([]models.Client, error) {
	f := bson.M{}
	for k, v := range filter {
		f[k] = v
	}
	f["organization_id"] = orgID
	return s.find(ctx, f, opts...)
}

// Count returns the number of clients of orgID matching filter.
func (s *Store) Count(ctx context.Context, orgID primitive.ObjectID, filter bson.M) (int64, error) {
	f := bson.M{}
	for k, v := range filter {
		f[k] = v
	}
	f["organization_id"] = orgID
	return s.c.CountDocuments(ctx, f)
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Client, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Client{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
