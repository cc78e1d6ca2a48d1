package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client fetches an already assembled catalog from another instance of the
// catalog endpoint, e.g. the shop deployment that owns the image folder.
type Client struct {
	BaseURL    string
	Observer   Observer
	httpClient *http.Client
}

// NewClient creates a new upstream catalog client
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Items implements Source by calling GET {BaseURL}/api/catalog.
func (c *Client) Items(ctx context.Context) ([]Item, error) {
	url := c.BaseURL + "/api/catalog"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("catalog API returned status %d: %s", resp.StatusCode, string(body))
	}

	var catalogResp Response
	if err := json.NewDecoder(resp.Body).Decode(&catalogResp); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	if c.Observer != nil {
		c.Observer.ObserveBuild(ModeUpstream, len(catalogResp.Items), Report{})
	}
	return catalogResp.Items, nil
}
