package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"moirai-dashboard/src/metrics"
)

// DefaultTimeout matches the upstream timeout of the proxy.
const DefaultTimeout = 30 * time.Second

// Client is an authenticated client for one CI server's REST API.
type Client struct {
	server     Server
	httpClient *http.Client
}

// NewClient creates a client for the server with the default timeout.
func NewClient(server Server) *Client {
	return &Client{
		server: server,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Server returns the server this client talks to.
func (c *Client) Server() Server {
	return c.server
}

// Do sends a request to {url}/api/{path}?{rawQuery} with the bearer token
// injected. The caller owns the response body.
func (c *Client) Do(ctx context.Context, method, path, rawQuery string, body io.Reader) (*http.Response, error) {
	target := fmt.Sprintf("%s/api/%s", c.server.URL, strings.TrimLeft(path, "/"))
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.server.Token))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveUpstream(c.server.ID, method, statusLabel(resp, err), time.Since(start))
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Get fetches a path relative to /api and returns the JSON body.
// Non-2xx responses become *StatusError.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	p, q, _ := strings.Cut(path, "?")
	resp, err := c.Do(ctx, http.MethodGet, p, q, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to decode response from %s: invalid JSON", c.server.ID)
	}

	return json.RawMessage(data), nil
}

func statusLabel(resp *http.Response, err error) string {
	if err != nil {
		return "error"
	}
	return fmt.Sprintf("%d", resp.StatusCode)
}
