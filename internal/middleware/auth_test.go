package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registry-auth/internal/auth"
	"registry-auth/internal/session"
	"registry-auth/internal/token"
)

var testSecret = []byte("test-secret")

func issueTestToken(t *testing.T, isAdmin bool) string {
	t.Helper()
	tok, err := token.Issue(&auth.Identity{
		ID:      auth.HashID("dev@registry"),
		Email:   "dev@registry",
		Name:    "Dev",
		IsAdmin: isAdmin,
	}, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func echoSessionHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFromContext(r.Context())
		require.True(t, ok, "session must be in context past the middleware")
		json.NewEncoder(w).Encode(sess)
	})
}

func TestRequireAuth_AdminFlagFromTokenOnly(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(testSecret, nil)
	srv := mw.RequireAuth(echoSessionHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: issueTestToken(t, true)})
	// A client-supplied payload claiming non-admin (or anything else)
	// must be invisible to the session path.
	req.Header.Set("X-Session", `{"user":{"isAdmin":false}}`)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var sess session.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.True(t, sess.User.IsAdmin)
	assert.Equal(t, "dev@registry", sess.User.Email)
}

func TestRequireAuth_NonAdminToken(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(testSecret, nil)
	srv := mw.RequireAuth(echoSessionHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: issueTestToken(t, false)})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var sess session.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.False(t, sess.User.IsAdmin)
}

func TestRequireAuth_RepeatedRequestsSameToken(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(testSecret, nil)
	srv := mw.RequireAuth(echoSessionHandler(t))
	tok := issueTestToken(t, true)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tok})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var sess session.Session
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
		assert.True(t, sess.User.IsAdmin, "flag must survive every reuse of the token")
	}
}

func TestRequireAuth_MissingToken(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(testSecret, nil)
	srv := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_TamperedToken(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(testSecret, nil)
	srv := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a bad signature")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: issueTestToken(t, true) + "x"})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(testSecret, nil)
	srv := mw.RequireAuth(echoSessionHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, false))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

type fakeRevocations struct {
	revoked map[string]bool
}

func (f *fakeRevocations) Revoke(ctx context.Context, jti string, until time.Time) error {
	f.revoked[jti] = true
	return nil
}

func (f *fakeRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func TestRequireAuth_RevokedToken(t *testing.T) {
	t.Parallel()

	tok := issueTestToken(t, false)
	claims, err := token.Verify(tok, testSecret)
	require.NoError(t, err)

	store := &fakeRevocations{revoked: map[string]bool{claims.ID: true}}
	mw := NewAuthMiddleware(testSecret, store)
	srv := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a revoked token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tok})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
