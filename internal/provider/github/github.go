package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	githubep "golang.org/x/oauth2/github"

	"registry-auth/internal/admin"
	"registry-auth/internal/auth"
	"registry-auth/internal/logger"
)

const providerName = "github"

const apiBase = "https://api.github.com"

// Provider implements delegated GitHub OAuth. GitHub verifies the
// user's credentials; this provider only fetches the profile and
// resolves the admin flag against the allow-list.
type Provider struct {
	oauthConfig *oauth2.Config
	allowlist   *admin.Allowlist
	apiBase     string
}

func New(
	clientID string,
	clientSecret string,
	redirectURL string,
	allowlist *admin.Allowlist,
) (*Provider, error) {

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     githubep.Endpoint,
		Scopes: []string{
			"read:user",
			"user:email",
		},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		allowlist:   allowlist,
		apiBase:     apiBase,
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
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}

	client := p.oauthConfig.Client(ctx, token)

	profile, err := p.fetchProfile(ctx, client)
	if err != nil {
		return nil, err
	}

	email := profile.Email
	if email == "" {
		email, err = p.fetchPrimaryEmail(ctx, client)
		if err != nil {
			return nil, err
		}
	}
	if email == "" {
		return nil, errors.New("github profile has no usable email")
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}

	isAdmin := p.allowlist.IsAdmin(email, "")

	logger.Info("github oauth verified", map[string]any{
		"login_present": profile.Login != "",
		"email_present": email != "",
		"admin":         isAdmin,
	})

	return &auth.Identity{
		Provider:          providerName,
		ID:                auth.HashID(email),
		Name:              name,
		Email:             email,
		PreferredUsername: profile.Login,
		Image:             profile.AvatarURL,
		IsAdmin:           isAdmin,
	}, nil
}

type githubProfile struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

func (p *Provider) fetchProfile(ctx context.Context, client *http.Client) (*githubProfile, error) {
	var profile githubProfile
	if err := p.getJSON(ctx, client, "/user", &profile); err != nil {
		return nil, fmt.Errorf("github profile fetch failed: %w", err)
	}
	if profile.Login == "" {
		return nil, errors.New("github profile missing login")
	}
	return &profile, nil
}

// fetchPrimaryEmail covers accounts whose profile email is private:
// the verified primary address is still available on /user/emails.
func (p *Provider) fetchPrimaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := p.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		return "", fmt.Errorf("github email fetch failed: %w", err)
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}

func (p *Provider) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
