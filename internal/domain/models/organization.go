// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMaxMembers caps how many members an organization may hold.
const DefaultMaxMembers = 20

// Organization is a tenant. Every other record except User points at one.
type Organization struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"` // ← always stored
	Slug         string             `bson:"slug" json:"slug"`
	BusinessType string             `bson:"business_type,omitempty" json:"business_type,omitempty"`
	Logo         string             `bson:"logo,omitempty" json:"logo,omitempty"`
	TimeZone     string             `bson:"time_zone,omitempty" json:"time_zone,omitempty"`
	MaxMembers   int                `bson:"max_members" json:"max_members"`
	OwnerID      primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
