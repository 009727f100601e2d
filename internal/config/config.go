package config

import (
	"os"
	"time"
)

type Config struct {
	AppPort string

	// Registry (credential-exchange provider). The provider is enabled
	// only when RegistryAPIURL and RegistryAPIToken are both set.
	RegistryAPIURL      string
	RegistryAPIPath     string
	RegistryAPIToken    string
	RegistryFieldEmail  string
	RegistryFieldPass   string
	RegistryFieldEnable string
	RegistryFieldName   string
	RegistryFieldAdmin  string
	RegistryEmailSuffix string
	RegistryTimeout     time.Duration

	GitHubClientID     string
	GitHubClientSecret string

	AzureADClientID     string
	AzureADClientSecret string
	AzureADTenantID     string

	OAuthRedirectBaseURL string

	AdminEmails string

	TokenSecret string
	TokenTTL    time.Duration

	RedisAddr     string
	RedisPassword string

	DevAuth bool
}

func Load() Config {

	cfg := Config{

		AppPort: getenv("APP_PORT", "8080"),

		RegistryAPIURL:      os.Getenv("REGISTRY_API_URL"),
		RegistryAPIPath:     getenv("REGISTRY_API_PATH", "/api/"),
		RegistryAPIToken:    os.Getenv("REGISTRY_API_TOKEN"),
		RegistryFieldEmail:  getenv("REGISTRY_FIELD_EMAIL", "creds_user"),
		RegistryFieldPass:   getenv("REGISTRY_FIELD_PASSWORD", "creds_pass"),
		RegistryFieldEnable: getenv("REGISTRY_FIELD_ENABLED", "creds_enabled"),
		RegistryFieldName:   getenv("REGISTRY_FIELD_NAME", "creds_name"),
		RegistryFieldAdmin:  getenv("REGISTRY_FIELD_ADMIN", "creds_admin"),
		RegistryEmailSuffix: getenv("REGISTRY_EMAIL_SUFFIX", "registry"),
		RegistryTimeout:     getduration("REGISTRY_TIMEOUT", 10*time.Second),

		GitHubClientID:     os.Getenv("AUTH_GITHUB_ID"),
		GitHubClientSecret: os.Getenv("AUTH_GITHUB_SECRET"),

		AzureADClientID:     os.Getenv("AZURE_AD_CLIENT_ID"),
		AzureADClientSecret: os.Getenv("AZURE_AD_CLIENT_SECRET"),
		AzureADTenantID:     os.Getenv("AZURE_AD_TENANT_ID"),

		OAuthRedirectBaseURL: os.Getenv("OAUTH_REDIRECT_BASE_URL"),

		AdminEmails: os.Getenv("ADMIN_EMAIL_ADDRESS"),

		TokenSecret: os.Getenv("TOKEN_SECRET"),
		TokenTTL:    getduration("TOKEN_TTL", 24*time.Hour),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DevAuth: os.Getenv("DEV_AUTH") == "1",
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
