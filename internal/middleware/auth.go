package middleware

import (
	"context"
	"net/http"
	"strings"

	"registry-auth/internal/session"
	"registry-auth/internal/token"
)

// unexported, collision-proof context key
type sessionContextKeyType struct{}

var sessionKey = sessionContextKeyType{}

// SessionFromContext extracts the authenticated session from context.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(session.Session)
	return s, ok
}

type AuthMiddleware struct {
	Secret      []byte
	Revocations session.RevocationStore // optional; nil disables revocation checks
}

func NewAuthMiddleware(secret []byte, revocations session.RevocationStore) *AuthMiddleware {
	return &AuthMiddleware{
		Secret:      secret,
		Revocations: revocations,
	}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Read the signed token (cookie, or bearer header for API clients)
		raw := tokenFromRequest(r)
		if raw == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 2. Verify signature and expiry
		claims, err := token.Verify(raw, a.Secret)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 3. Reject tokens revoked by logout
		if a.Revocations != nil {
			revoked, err := a.Revocations.IsRevoked(r.Context(), claims.ID)
			if err != nil || revoked {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}

		// 4. Build the session from the verified claims only. Client
		// payloads never reach this step, so the admin flag cannot be
		// forged outside the signed token.
		sess := session.FromClaims(claims)

		ctx := context.WithValue(r.Context(), sessionKey, sess)

		// 5. Continue request
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
