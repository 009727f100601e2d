package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"registry-auth/internal/auth"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the durable token produced at sign-in. The admin flag is
// written exactly once, from the resolved identity, and is omitted
// entirely when false so refresh paths that never re-run authentication
// cannot overwrite an established flag with an explicit false.
type Claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Name    string `json:"name"`
	Image   string `json:"image,omitempty"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
}

// Issue signs a token for a freshly authenticated identity. This is the
// only place the admin flag enters the token.
func Issue(identity *auth.Identity, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: identity.Email,
		Name:  identity.Name,
		Image: identity.Image,
	}
	if identity.IsAdmin {
		claims.IsAdmin = true
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify parses and validates a signed token and returns its claims.
func Verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Refresh re-signs existing claims with a fresh expiry and id. It never
// re-derives anything: the identity facts and admin flag set at sign-in
// stay authoritative for the token's whole lineage.
func Refresh(claims *Claims, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	next := *claims
	next.ID = uuid.NewString()
	next.IssuedAt = jwt.NewNumericDate(now)
	next.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	return jwt.NewWithClaims(jwt.SigningMethodHS256, next).SignedString(secret)
}
