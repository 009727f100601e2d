package azuread

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"registry-auth/internal/admin"
	"registry-auth/internal/auth"
	"registry-auth/internal/logger"
)

const providerName = "azuread"

// Provider implements delegated AzureAD authentication via OIDC. The
// tenant verifies the user; this provider validates the id_token and
// resolves the admin flag against the allow-list, matching both the
// email and preferred_username claims.
type Provider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
	allowlist   *admin.Allowlist
}

// New initializes the AzureAD OIDC provider using discovery on the
// tenant issuer.
func New(
	ctx context.Context,
	clientID string,
	clientSecret string,
	tenantID string,
	redirectURL string,
	allowlist *admin.Allowlist,
) (*Provider, error) {

	if clientID == "" || clientSecret == "" || tenantID == "" || redirectURL == "" {
		return nil, errors.New("azuread oauth config missing required fields")
	}

	issuer := "https://login.microsoftonline.com/" + tenantID + "/v2.0"

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init azuread oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: clientID,
	})

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		verifier:    verifier,
		allowlist:   allowlist,
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("azuread token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("azuread did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("azuread id_token verification failed: %w", err)
	}

	var claims struct {
		Subject           string `json:"sub"`
		Email             string `json:"email"`
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
	}

	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("azuread id_token claims parse failed: %w", err)
	}

	// AzureAD omits the email claim for some account types; the
	// preferred_username is a UPN and serves as the canonical address
	// there.
	email := claims.Email
	if email == "" {
		email = claims.PreferredUsername
	}

	if claims.Subject == "" || email == "" {
		return nil, errors.New("azuread id_token missing required claims")
	}

	isAdmin := p.allowlist.IsAdmin(email, claims.PreferredUsername)

	logger.Info("azuread oidc verified", map[string]any{
		"issuer":          idToken.Issuer,
		"subject_present": claims.Subject != "",
		"email_present":   email != "",
		"admin":           isAdmin,
		"audience":        idToken.Audience,
		"expiry_unix":     idToken.Expiry.Unix(),
	})

	return &auth.Identity{
		Provider:          providerName,
		ID:                auth.HashID(email),
		Name:              claims.Name,
		Email:             email,
		PreferredUsername: claims.PreferredUsername,
		Image:             "",
		IsAdmin:           isAdmin,
	}, nil
}
