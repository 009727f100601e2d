package provider

import "fmt"

// Registry holds the active set of configured providers and allows
// lookup by name. It performs no auth logic itself.
type Registry struct {
	oauth       map[string]OAuthProvider
	credentials map[string]CredentialProvider
	defaultCred string
}

func NewRegistry() *Registry {
	return &Registry{
		oauth:       make(map[string]OAuthProvider),
		credentials: make(map[string]CredentialProvider),
	}
}

// AddOAuth registers a delegated provider. Names must be unique.
func (r *Registry) AddOAuth(p OAuthProvider) {
	r.oauth[p.Name()] = p
}

// AddCredential registers a credential provider. The first one added
// becomes the default for login requests that name no provider.
func (r *Registry) AddCredential(p CredentialProvider) {
	if r.defaultCred == "" {
		r.defaultCred = p.Name()
	}
	r.credentials[p.Name()] = p
}

// OAuth returns the delegated provider by name or an error if not
// registered.
func (r *Registry) OAuth(name string) (OAuthProvider, error) {
	p, ok := r.oauth[name]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider: %s", name)
	}
	return p, nil
}

// Credential returns the credential provider by name; an empty name
// selects the default.
func (r *Registry) Credential(name string) (CredentialProvider, error) {
	if name == "" {
		name = r.defaultCred
	}
	p, ok := r.credentials[name]
	if !ok {
		return nil, fmt.Errorf("unknown credential provider: %s", name)
	}
	return p, nil
}

// Empty reports whether no provider of any kind is configured.
func (r *Registry) Empty() bool {
	return len(r.oauth) == 0 && len(r.credentials) == 0
}
