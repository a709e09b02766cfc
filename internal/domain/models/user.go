// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a person who can sign in. Organization membership and role live
// on Member, not here.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        *string            `bson:"email,omitempty" json:"email,omitempty"`
	LoginMethod  string             `bson:"login_method" json:"login_method"` // internal | onboarding
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Status       string             `bson:"status" json:"status"` // active | disabled

	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
	LastSignedIn *time.Time `bson:"last_signed_in,omitempty" json:"last_signed_in,omitempty"`
}
