package localdev

import (
	"context"

	"registry-auth/internal/auth"
	"registry-auth/internal/logger"
)

const providerName = "localdev"

// Provider is a development-only credential provider: it accepts any
// non-empty username, ignores the password, and never grants admin.
// Useful when a dev has no app registration in the tenant and no
// registry access. Must never be registered outside dev.
type Provider struct{}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) Authorize(
	ctx context.Context,
	username string,
	password string,
) (*auth.Identity, error) {

	if username == "" {
		return nil, nil
	}

	email := username + "@localhost"

	logger.Warn("localdev login", map[string]any{
		"username": username,
	})

	return &auth.Identity{
		Provider: providerName,
		ID:       auth.HashID(email),
		Name:     username,
		Email:    email,
		Image:    "",
		IsAdmin:  false,
	}, nil
}
