package auth

// Identity represents a normalized authentication identity produced by
// a provider. It contains facts only, no decisions: IsAdmin is filled in
// by the provider's authoritative source (registry field or allow-list)
// before a token is issued, never later.
type Identity struct {
	Provider          string // e.g. "github", "azuread", "registry"
	ID                string // stable opaque user id, HashID(email)
	Name              string // display name
	Email             string // canonical email for this identity
	PreferredUsername string // secondary login name, when the provider exposes one
	Image             string // avatar URL, empty when unknown
	IsAdmin           bool   // resolved administrator flag
}
