package oidc

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mwhitfield/eightball/internal/models"
)

// DefaultTokenExpiry is how long a session token stays valid
const DefaultTokenExpiry = 7 * 24 * time.Hour

// TokenIssuer mints the session tokens handed to the browser after a
// successful OAuth2 login. Tokens are HMAC-signed with the server secret
// and carry the internal user ID as the subject.
type TokenIssuer struct {
	secret []byte
	issuer string
	expiry time.Duration
}

// NewTokenIssuer creates a token issuer. A zero expiry falls back to
// DefaultTokenExpiry.
func NewTokenIssuer(secret, issuer string, expiry time.Duration) *TokenIssuer {
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	return &TokenIssuer{
		secret: []byte(secret),
		issuer: issuer,
		expiry: expiry,
	}
}

// Issue creates a signed session token for the user
func (i *TokenIssuer) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iss":   i.issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(i.expiry).Unix(),
	}
	if user.Name != nil {
		claims["name"] = *user.Name
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
