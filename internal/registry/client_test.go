package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "/api/", 2*time.Second)
}

func TestClient_Send_Success(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "record", r.PostForm.Get("content"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"creds_user":"dev","creds_admin":"1"}]`))
	})

	form := url.Values{}
	form.Set("content", "record")

	records, err := c.Send(context.Background(), form)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "dev", records[0]["creds_user"])
}

func TestClient_Send_EmptyArray(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	records, err := c.Send(context.Background(), url.Values{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClient_Send_BadStatus(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.Send(context.Background(), url.Values{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)

	var bad *BadStatusError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, http.StatusInternalServerError, bad.Code)
}

func TestClient_Send_MalformedBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	_, err := c.Send(context.Background(), url.Values{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)

	var bad *BadStatusError
	assert.False(t, errors.As(err, &bad), "parse failure must not look like a bad status")
}

func TestClient_Send_ConnectionFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := NewClient(addr, "/api/", time.Second)

	_, err := c.Send(context.Background(), url.Values{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Send_OneRequestPerCall(t *testing.T) {
	t.Parallel()

	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.Send(context.Background(), url.Values{})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "client must never retry on its own")
}

func TestNewClient_BareHostGetsHTTPS(t *testing.T) {
	t.Parallel()

	c := NewClient("registry.example.edu", "/api/", time.Second)
	assert.Equal(t, "https://registry.example.edu/api/", c.endpoint)
}

func TestNewClient_ZeroTimeoutBounded(t *testing.T) {
	t.Parallel()

	c := NewClient("registry.example.edu", "/api/", 0)
	assert.Greater(t, c.http.Timeout, time.Duration(0))
}
