package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Shop config pages served by Coach.
const (
	PageLanding = "landing"
	PageSearch  = "search"
	PageDetails = "details"
)

// ErrNotConfigured is returned when no Coach base URL is set.
var ErrNotConfigured = errors.New("missing COACH_BASE_URL")

// ErrInvalidJSON is returned when Coach answers with something that is not
// a JSON object or array.
var ErrInvalidJSON = errors.New("invalid JSON from Coach")

// StatusError is returned for a non-2xx Coach response.
type StatusError struct {
	Status  int
	Preview string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Coach responded %d", e.Status)
}

// Client reads shop page configuration from the Coach CMS.
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a Coach client. An empty baseURL yields a client whose
// calls all fail with ErrNotConfigured.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Configured reports whether a base URL is set.
func (c *Client) Configured() bool {
	return c != nil && c.BaseURL != ""
}

// PageConfig fetches /api/coach/shop-config/{page}.
func (c *Client) PageConfig(ctx context.Context, page string) (any, error) {
	return c.FetchJSON(ctx, "/api/coach/shop-config/"+page)
}

// FetchJSON performs an uncached GET against Coach and decodes the body.
// The body must be a JSON object or array.
func (c *Client) FetchJSON(ctx context.Context, pathname string) (any, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if !strings.HasPrefix(pathname, "/") {
		pathname = "/" + pathname
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+pathname, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Coach request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Coach: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read Coach response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, Preview: preview(string(body), 200)}
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, ErrInvalidJSON
	}
	switch data.(type) {
	case map[string]any, []any:
		return data, nil
	default:
		return nil, ErrInvalidJSON
	}
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
