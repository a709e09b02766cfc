// Package notify fans a notification out to the members of an organization.
package notify

import (
	"context"
	"time"

	memberstore "github.com/dalemusser/claimdesk/internal/app/store/members"
	notificationstore "github.com/dalemusser/claimdesk/internal/app/store/notifications"
	"github.com/dalemusser/claimdesk/internal/app/system/txn"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Message is what every recipient receives.
type Message struct {
	Type       string
	Title      string
	Body       *string
	EntityType *string
	EntityID   *string
}

// Dispatcher writes notifications. Callers treat its errors as best effort:
// they log them and keep the write that triggered the notification.
type Dispatcher struct {
	db      *mongo.Database
	members *memberstore.Store
	notes   *notificationstore.Store
	log     *zap.Logger
	now     func() time.Time
}

func New(db *mongo.Database, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		db:      db,
		members: memberstore.New(db),
		notes:   notificationstore.New(db),
		log:     log,
		now:     time.Now,
	}
}

// NotifyOrganization sends msg to every member of orgID and returns how
// many notifications were written. An organization without members is a
// no-op.
func (d *Dispatcher) NotifyOrganization(ctx context.Context, orgID primitive.ObjectID, msg Message) (int, error) {
	userIDs, err := d.members.UserIDs(ctx, orgID)
	if err != nil {
		return 0, err
	}
	return d.NotifyUsers(ctx, orgID, userIDs, msg)
}

// NotifyUsers sends msg to each of userIDs (duplicates collapse) in a
// single batch.
func (d *Dispatcher) NotifyUsers(ctx context.Context, orgID primitive.ObjectID, userIDs []primitive.ObjectID, msg Message) (int, error) {
	batch := FanOut(orgID, userIDs, msg, d.now())
	if len(batch) == 0 {
		return 0, nil
	}
	err := txn.Run(ctx, d.db, d.log, func(ctx context.Context) error {
		_, err := d.notes.InsertMany(ctx, batch)
		return err
	})
	if err != nil {
		return 0, err
	}
	return len(batch), nil
}

// FanOut builds one unread notification per distinct user, in input order.
func FanOut(orgID primitive.ObjectID, userIDs []primitive.ObjectID, msg Message, now time.Time) []models.Notification {
	out := make([]models.Notification, 0, len(userIDs))
	seen := make(map[primitive.ObjectID]bool, len(userIDs))
	for _, uid := range userIDs {
		if uid.IsZero() || seen[uid] {
			continue
		}
		seen[uid] = true
		out = append(out, models.Notification{
			OrganizationID: orgID,
			UserID:         uid,
			Type:           msg.Type,
			Title:          msg.Title,
			Body:           msg.Body,
			EntityType:     msg.EntityType,
			EntityID:       msg.EntityID,
			CreatedAt:      now.UTC(),
		})
	}
	return out
}

// Entity fills in the entity a message points at.
func (m Message) Entity(entityType, id string) Message {
	m.EntityType = &entityType
	m.EntityID = &id
	return m
}

// WithBody sets the message body; blank leaves it unset.
func (m Message) WithBody(body string) Message {
	if body != "" {
		m.Body = &body
	}
	return m
}
