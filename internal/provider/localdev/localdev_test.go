package localdev

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registry-auth/internal/auth"
)

func TestAuthorize_AnyUsername(t *testing.T) {
	t.Parallel()

	identity, err := New().Authorize(context.Background(), "dev", "ignored")
	require.NoError(t, err)
	require.NotNil(t, identity)

	assert.Equal(t, "dev@localhost", identity.Email)
	assert.Equal(t, auth.HashID("dev@localhost"), identity.ID)
	assert.False(t, identity.IsAdmin, "localdev must never grant admin")
}

func TestAuthorize_EmptyUsernameRejected(t *testing.T) {
	t.Parallel()

	identity, err := New().Authorize(context.Background(), "", "pw")
	require.NoError(t, err)
	assert.Nil(t, identity)
}
