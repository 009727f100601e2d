package provider

import (
	"context"

	"registry-auth/internal/admin"
	"registry-auth/internal/config"
	"registry-auth/internal/logger"
	"registry-auth/internal/provider/azuread"
	"registry-auth/internal/provider/github"
	"registry-auth/internal/provider/localdev"
	"registry-auth/internal/registry"
)

// Assemble builds the active provider set from configuration. A
// provider is instantiated if and only if all of its required values
// are present; anything missing skips the provider silently so a
// deployment can enable any subset. A constructor failure (e.g. OIDC
// discovery) also only skips that provider, never the process.
func Assemble(ctx context.Context, cfg config.Config, allowlist *admin.Allowlist) *Registry {

	reg := NewRegistry()

	if cfg.RegistryAPIURL != "" && cfg.RegistryAPIToken != "" {
		client := registry.NewClient(cfg.RegistryAPIURL, cfg.RegistryAPIPath, cfg.RegistryTimeout)
		reg.AddCredential(registry.NewAuthorizer(
			client,
			registry.FieldMap{
				Email:    cfg.RegistryFieldEmail,
				Password: cfg.RegistryFieldPass,
				Enabled:  cfg.RegistryFieldEnable,
				Name:     cfg.RegistryFieldName,
				Admin:    cfg.RegistryFieldAdmin,
			},
			cfg.RegistryAPIToken,
			cfg.RegistryEmailSuffix,
		))
		logger.Info("provider enabled", map[string]any{"provider": registry.ProviderName})
	} else {
		logger.Info("provider skipped, not configured", map[string]any{
			"provider": registry.ProviderName,
		})
	}

	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret != "" {
		p, err := github.New(
			cfg.GitHubClientID,
			cfg.GitHubClientSecret,
			cfg.OAuthRedirectBaseURL+"/oauth/callback/github",
			allowlist,
		)
		if err != nil {
			logger.Warn("provider skipped, init failed", map[string]any{
				"provider": "github",
				"error":    err.Error(),
			})
		} else {
			reg.AddOAuth(p)
			logger.Info("provider enabled", map[string]any{"provider": "github"})
		}
	} else {
		logger.Info("provider skipped, not configured", map[string]any{"provider": "github"})
	}

	if cfg.AzureADClientID != "" && cfg.AzureADClientSecret != "" && cfg.AzureADTenantID != "" {
		p, err := azuread.New(
			ctx,
			cfg.AzureADClientID,
			cfg.AzureADClientSecret,
			cfg.AzureADTenantID,
			cfg.OAuthRedirectBaseURL+"/oauth/callback/azuread",
			allowlist,
		)
		if err != nil {
			logger.Warn("provider skipped, init failed", map[string]any{
				"provider": "azuread",
				"error":    err.Error(),
			})
		} else {
			reg.AddOAuth(p)
			logger.Info("provider enabled", map[string]any{"provider": "azuread"})
		}
	} else {
		logger.Info("provider skipped, not configured", map[string]any{"provider": "azuread"})
	}

	if cfg.DevAuth {
		reg.AddCredential(localdev.New())
		logger.Warn("provider enabled", map[string]any{
			"provider": "localdev",
			"note":     "accepts any username, dev only",
		})
	}

	return reg
}
