package session

import "registry-auth/internal/token"

// User is the per-request identity view exposed to the rest of the
// system.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Image   string `json:"image"`
	IsAdmin bool   `json:"isAdmin"`
}

// Session is derived fresh per request from a verified token and
// discarded when the request completes.
type Session struct {
	User User `json:"user"`
}

// FromClaims converts verified token claims into the request session.
// This is the only path by which downstream code observes the admin
// flag: an absent claim becomes a concrete false, and nothing the
// client supplies outside the signed token can influence it.
func FromClaims(claims *token.Claims) Session {
	return Session{
		User: User{
			ID:      claims.Subject,
			Email:   claims.Email,
			Name:    claims.Name,
			Image:   claims.Image,
			IsAdmin: claims.IsAdmin,
		},
	}
}
