// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member roles within an organization.
const (
	RoleAdmin    = "ADMIN"
	RoleCoAdmin  = "CO_ADMIN"
	RoleVendedor = "VENDEDOR"
)

// IsValidRole reports whether role is one of the member roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleCoAdmin, RoleVendedor:
		return true
	}
	return false
}

// Member links a user to the organization they work in.
// Username is the login handle and is unique across all organizations.
type Member struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role           string             `bson:"role" json:"role"`
	Username       string             `bson:"username" json:"username"`
	UsernameCI     string             `bson:"username_ci" json:"-"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
