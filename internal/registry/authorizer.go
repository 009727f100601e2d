package registry

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"registry-auth/internal/auth"
	"registry-auth/internal/logger"
)

// ProviderName identifies the credential-exchange provider.
const ProviderName = "registry"

// Sender is the outbound half of the exchange, satisfied by *Client.
type Sender interface {
	Send(ctx context.Context, form url.Values) ([]Record, error)
}

// Authorizer is the credential-exchange decision logic: it forwards a
// username/password pair to the registry and maps a single matching
// record into an identity.
//
// Return convention: (nil, nil) means the attempt is rejected for a
// user-correctable reason (empty field, no match, ambiguous match) and
// no detail about which part was wrong may be surfaced. A non-nil error
// always wraps ErrUnavailable and means the registry could not be
// consulted at all.
type Authorizer struct {
	client      Sender
	fields      FieldMap
	apiToken    string
	emailSuffix string
}

func NewAuthorizer(client Sender, fields FieldMap, apiToken, emailSuffix string) *Authorizer {
	return &Authorizer{
		client:      client,
		fields:      fields,
		apiToken:    apiToken,
		emailSuffix: emailSuffix,
	}
}

func (a *Authorizer) Name() string {
	return ProviderName
}

func (a *Authorizer) Authorize(
	ctx context.Context,
	username string,
	password string,
) (*auth.Identity, error) {

	// Empty credentials are a user-input problem; the registry is
	// never consulted for them.
	if username == "" || password == "" {
		return nil, nil
	}

	form := BuildQuery(Credentials{Username: username, Password: password}, a.fields, a.apiToken)

	records, err := a.client.Send(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("registry authorize: %w", err)
	}

	switch len(records) {
	case 0:
		logger.Info("registry login rejected", map[string]any{
			"outcome": "no_match",
		})
		return nil, nil
	case 1:
		// fall through
	default:
		// More than one record matched an exact-equality filter:
		// the registry data is ambiguous. Never authenticate
		// against an arbitrary member of the match set.
		logger.Warn("registry login rejected", map[string]any{
			"outcome": "ambiguous_match",
			"records": len(records),
		})
		return nil, nil
	}

	rec := records[0]

	email := stringField(rec, a.fields.Email)
	if email == "" {
		logger.Warn("registry record missing email field", map[string]any{
			"field": a.fields.Email,
		})
		return nil, nil
	}
	if !strings.Contains(email, "@") {
		email = email + "@" + a.emailSuffix
	}

	name := stringField(rec, a.fields.Name)
	if name == "" {
		name = username
	}

	identity := &auth.Identity{
		Provider: ProviderName,
		ID:       auth.HashID(email),
		Name:     name,
		Email:    email,
		Image:    "",
		IsAdmin:  adminTrue(rec[a.fields.Admin]),
	}

	logger.Info("registry login accepted", map[string]any{
		"outcome": "match",
		"admin":   identity.IsAdmin,
	})

	return identity, nil
}

// adminTrue reports whether a registry field value is the canonical
// truthy encoding: JSON boolean true, or the raw-export string "1".
// Every other encoding resolves to non-admin.
func adminTrue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "1"
	default:
		return false
	}
}

func stringField(rec Record, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}
