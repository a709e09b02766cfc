// internal/app/system/auth/tokens.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for malformed, expired or badly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims carried by API tokens. Subject is the user id.
type Claims struct {
	OrganizationID string `json:"org"`
	Role           string `json:"role"`
	Name           string `json:"name,omitempty"`
	LoginID        string `json:"login,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens for API clients.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenService returns a service signing with secret. Tokens expire
// after ttl.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 chars, got %d", len(secret))
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, issuer: "claimdesk", now: time.Now}, nil
}

// Issue signs a token for u and returns it with its expiry.
func (ts *TokenService) Issue(u SessionUser) (string, time.Time, error) {
	now := ts.now().UTC()
	exp := now.Add(ts.ttl)
	claims := Claims{
		OrganizationID: u.OrganizationID,
		Role:           u.Role,
		Name:           u.Name,
		LoginID:        u.LoginID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			Issuer:    ts.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies raw and returns the user it names.
func (ts *TokenService) Parse(raw string) (*SessionUser, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return ts.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ts.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &SessionUser{
		ID:             claims.Subject,
		OrganizationID: claims.OrganizationID,
		Role:           claims.Role,
		Name:           claims.Name,
		LoginID:        claims.LoginID,
	}, nil
}
