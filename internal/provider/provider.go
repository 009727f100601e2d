package provider

import (
	"context"

	"registry-auth/internal/auth"
)

// OAuthProvider is the contract for delegated providers, where the
// external identity service performs the credential check.
// Implementations return a fully resolved identity (admin flag
// included) and must not perform session or token management.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "github", "azuread").
	Name() string

	// AuthCodeURL returns the OAuth authorization URL.
	// State and PKCE parameters are provided by the caller.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode exchanges the authorization code for provider
	// credentials and returns a resolved identity.
	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*auth.Identity, error)
}

// CredentialProvider is the contract for providers that verify a raw
// username/password pair themselves.
//
// (nil, nil) means the attempt was rejected for a user-correctable
// reason; a non-nil error means the provider's backend could not be
// consulted and the caller must not present the failure as wrong
// credentials.
type CredentialProvider interface {
	Name() string

	Authorize(
		ctx context.Context,
		username string,
		password string,
	) (*auth.Identity, error)
}
