// Package authutil holds password rules and hashing shared by sign-in,
// onboarding and member management.
package authutil

import (
	"fmt"
	"strings"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores input past 72 bytes.
	MaxPasswordLength = 72
)

var (
	ErrPasswordTooShort = apperr.Validation("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = apperr.Validation("password must be at most %d characters", MaxPasswordLength)
	ErrPasswordCommon   = apperr.Validation("password is too common")
)

var commonPasswords = map[string]struct{}{
	"12345678":   {},
	"123456789":  {},
	"password":   {},
	"password1":  {},
	"qwertyuiop": {},
	"iloveyou":   {},
	"football":   {},
	"baseball":   {},
	"11111111":   {},
	"sunshine":   {},
	"princess":   {},
	"welcome1":   {},
}

// ValidatePassword checks length and rejects well-known passwords.
func ValidatePassword(pw string) error {
	switch {
	case len(pw) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(pw) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	if _, common := commonPasswords[strings.ToLower(pw)]; common {
		return ErrPasswordCommon
	}
	return nil
}

// PasswordRules describes ValidatePassword for API clients.
func PasswordRules() string {
	return fmt.Sprintf("At least %d characters and not a common password.", MinPasswordLength)
}

// HashPassword returns the bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether pw matches hash.
func CheckPassword(pw, hash string) bool {
	if pw == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// GeneratePassword returns a random 12 character password for accounts
// created on someone's behalf.
func GeneratePassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
