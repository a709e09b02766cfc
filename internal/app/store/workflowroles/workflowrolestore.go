// internal/app/store/workflowroles/workflowrolestore.go
package workflowrolestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound      = apperr.NotFound("workflow role")
	ErrDuplicateName = apperr.Conflict("a workflow role with that name already exists")
	ErrManyPrimary   = apperr.Validation("a role can have only one primary member")
)

// MemberInput is one entry of a role's member list.
type MemberInput struct {
	UserID    primitive.ObjectID
	IsPrimary bool
}

type Store struct {
	roles   *mongo.Collection
	members *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		roles:   db.Collection("workflow_roles"),
		members: db.Collection("workflow_role_members"),
	}
}

func (s *Store) CreateRole(ctx context.Context, r models.WorkflowRole) (models.WorkflowRole, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.Name = strings.TrimSpace(r.Name)
	r.NameCI = text.Fold(r.Name)
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.roles.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.WorkflowRole{}, ErrDuplicateName
		}
		return models.WorkflowRole{}, err
	}
	return r, nil
}

func (s *Store) GetRole(ctx context.Context, orgID, id primitive.ObjectID) (models.WorkflowRole, error) {
	var r models.WorkflowRole
	err := s.roles.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.WorkflowRole{}, ErrNotFound
	}
	if err != nil {
		return models.WorkflowRole{}, err
	}
	return r, nil
}

// ListRoles returns orgID's roles ordered by name.
func (s *Store) ListRoles(ctx context.Context, orgID primitive.ObjectID) ([]models.WorkflowRole, error) {
	cur, err := s.roles.Find(ctx, bson.M{"organization_id": orgID},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.WorkflowRole{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRole renames a role and/or changes its description. A nil
// description leaves it alone; an empty one clears it.
func (s *Store) UpdateRole(ctx context.Context, orgID, id primitive.ObjectID, name, description *string) (models.WorkflowRole, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	upd := bson.M{}
	if name != nil {
		n := strings.TrimSpace(*name)
		set["name"] = n
		set["name_ci"] = text.Fold(n)
	}
	if description != nil {
		if d := strings.TrimSpace(*description); d != "" {
			set["description"] = d
		} else {
			upd["$unset"] = bson.M{"description": ""}
		}
	}
	upd["$set"] = set

	var r models.WorkflowRole
	err := s.roles.FindOneAndUpdate(ctx, bson.M{"_id": id, "organization_id": orgID}, upd,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&r)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.WorkflowRole{}, ErrNotFound
	case wafflemongo.IsDup(err):
		return models.WorkflowRole{}, ErrDuplicateName
	case err != nil:
		return models.WorkflowRole{}, err
	}
	return r, nil
}

// DeleteRole removes a role and its members.
func (s *Store) DeleteRole(ctx context.Context, orgID, id primitive.ObjectID) error {
	res, err := s.roles.DeleteOne(ctx, bson.M{"_id": id, "organization_id": orgID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	_, err = s.members.DeleteMany(ctx, bson.M{"organization_id": orgID, "role_id": id})
	return err
}

// Members returns a role's members, primary first then in the order added.
func (s *Store) Members(ctx context.Context, orgID, roleID primitive.ObjectID) ([]models.WorkflowRoleMember, error) {
	return s.findMembers(ctx, bson.M{"organization_id": orgID, "role_id": roleID})
}

// MembersByRole returns every member of orgID grouped by role id.
func (s *Store) MembersByRole(ctx context.Context, orgID primitive.ObjectID) (map[primitive.ObjectID][]models.WorkflowRoleMember, error) {
	rows, err := s.findMembers(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID][]models.WorkflowRoleMember)
	for _, m := range rows {
		out[m.RoleID] = append(out[m.RoleID], m)
	}
	return out, nil
}

// ReplaceMembers swaps a role's member list for members. Duplicate user
// ids keep their first entry. More than one primary is rejected.
func (s *Store) ReplaceMembers(ctx context.Context, orgID, roleID primitive.ObjectID, members []MemberInput) ([]models.WorkflowRoleMember, error) {
	primaries := 0
	seen := make(map[primitive.ObjectID]bool, len(members))
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(members))
	out := make([]models.WorkflowRoleMember, 0, len(members))
	for i, m := range members {
		if seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true
		if m.IsPrimary {
			primaries++
		}
		doc := models.WorkflowRoleMember{
			ID:             primitive.NewObjectID(),
			OrganizationID: orgID,
			RoleID:         roleID,
			UserID:         m.UserID,
			IsPrimary:      m.IsPrimary,
			// Distinct timestamps keep insertion order stable.
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		}
		docs = append(docs, doc)
		out = append(out, doc)
	}
	if primaries > 1 {
		return nil, ErrManyPrimary
	}
	if _, err := s.GetRole(ctx, orgID, roleID); err != nil {
		return nil, err
	}

	if _, err := s.members.DeleteMany(ctx, bson.M{"organization_id": orgID, "role_id": roleID}); err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		if _, err := s.members.InsertMany(ctx, docs); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ResolveAssignee picks who gets work routed through roleID: the primary
// member, else the earliest added member, else nobody (nil, nil).
func (s *Store) ResolveAssignee(ctx context.Context, orgID, roleID primitive.ObjectID) (*primitive.ObjectID, error) {
	members, err := s.Members(ctx, orgID, roleID)
	if err != nil {
		return nil, err
	}
	return PickAssignee(members), nil
}

// PickAssignee applies the ResolveAssignee rule to an in-memory list.
func PickAssignee(members []models.WorkflowRoleMember) *primitive.ObjectID {
	for _, m := range members {
		if m.IsPrimary {
			id := m.UserID
			return &id
		}
	}
	if len(members) == 0 {
		return nil
	}
	first := members[0]
	for _, m := range members[1:] {
		if m.CreatedAt.Before(first.CreatedAt) {
			first = m
		}
	}
	id := first.UserID
	return &id
}

// RemoveUser drops userID from every role of orgID.
func (s *Store) RemoveUser(ctx context.Context, orgID, userID primitive.ObjectID) error {
	_, err := s.members.DeleteMany(ctx, bson.M{"organization_id": orgID, "user_id": userID})
	return err
}

func (s *Store) findMembers(ctx context.Context, filter bson.M) ([]models.WorkflowRoleMember, error) {
	cur, err := s.members.Find(ctx, filter, options.Find().SetSort(bson.D{
		{Key: "is_primary", Value: -1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.WorkflowRoleMember{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
