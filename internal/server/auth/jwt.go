// Package auth verifies provider-issued access tokens locally when the
// provider's JWT secret is configured.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hrmsauth/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the subset of the provider's access-token claims this service
// reads. The subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// RemoteUser projects the claims onto the service model. Confirmation and
// creation timestamps are not carried by the token, so both stay zero; iat
// is the session's issue time, not the account's.
func (c *Claims) RemoteUser() models.RemoteUser {
	name, _ := c.UserMetadata["full_name"].(string)
	return models.RemoteUser{ID: c.Subject, Email: c.Email, DisplayName: name}
}

// Verifier checks HS256 access tokens against the provider's JWT secret.
type Verifier struct {
	secret []byte
	leeway time.Duration
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret), leeway: 5 * time.Second}
}

// Verify parses tokenString and returns its claims. Tokens that are expired,
// carry no expiry or subject, or are signed with another method or key are
// rejected with ErrInvalidToken.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
