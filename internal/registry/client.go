package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnavailable marks every failure that is the registry's fault, not
// the user's: connection errors, non-2xx statuses, unparseable bodies.
// Callers must keep it distinguishable from "no matching record" so an
// outage is never presented as wrong credentials.
var ErrUnavailable = errors.New("registry unavailable")

// BadStatusError carries the HTTP status of a failed exchange. Always
// wrapped under ErrUnavailable.
type BadStatusError struct {
	Code int
}

func (e *BadStatusError) Error() string {
	return fmt.Sprintf("registry returned status %d", e.Code)
}

// Record is one row of a record export, keyed by physical field name.
// Values are strings for most fields, booleans for JSON-typed ones.
type Record map[string]any

// Client performs the HTTPS exchange with the registry. One request per
// Send, no retries: retry policy, if any, belongs to a caller.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient builds a registry client for the given host and API path.
// host may be bare ("registry.example.edu") or carry an https scheme.
// timeout bounds the whole exchange; a zero timeout is replaced with a
// default so a login attempt can never hang indefinitely.
func NewClient(host, path string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	endpoint := host
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	endpoint = strings.TrimSuffix(endpoint, "/") + path

	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Send posts the form-encoded query and returns the exported records.
// The result may be empty; interpreting 0/1/n matches is the caller's
// policy, not the client's.
func (c *Client) Send(ctx context.Context, form url.Values) ([]Record, error) {

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, &BadStatusError{Code: resp.StatusCode})
	}

	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: malformed response body: %v", ErrUnavailable, err)
	}

	return records, nil
}
