package session

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"registry-auth/internal/token"
)

func TestFromClaims_AdminFlagPropagates(t *testing.T) {
	t.Parallel()

	claims := &token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "id-1"},
		Email:            "admin@example.org",
		Name:             "Admin",
		IsAdmin:          true,
	}

	sess := FromClaims(claims)

	assert.Equal(t, "id-1", sess.User.ID)
	assert.Equal(t, "admin@example.org", sess.User.Email)
	assert.True(t, sess.User.IsAdmin)
}

func TestFromClaims_AbsentFlagIsConcreteFalse(t *testing.T) {
	t.Parallel()

	claims := &token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "id-2"},
		Email:            "user@example.org",
		Name:             "User",
	}

	sess := FromClaims(claims)
	assert.False(t, sess.User.IsAdmin)
}
