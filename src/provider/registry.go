package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Registry holds one client per configured server and implements Fetcher.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	clients map[string]*Client
	kinds   map[string]Kind
}

// NewRegistry builds clients for the servers, preserving their order.
func NewRegistry(servers []Server) *Registry {
	r := &Registry{
		clients: make(map[string]*Client, len(servers)),
		kinds:   make(map[string]Kind, len(servers)),
	}
	for _, s := range servers {
		r.Add(NewClient(s))
	}
	return r
}

// Add registers a client, replacing any client with the same server ID.
func (r *Registry) Add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := c.server.ID
	if _, exists := r.clients[id]; !exists {
		r.order = append(r.order, id)
	}
	r.clients[id] = c
	if c.server.Type != "" && c.server.Type != KindAuto {
		r.kinds[id] = c.server.Type
	}
}

// Servers returns the configured servers in configuration order.
func (r *Registry) Servers() []Server {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Server, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.clients[id].server)
	}
	return out
}

// Client returns the client for a server ID.
func (r *Registry) Client(serverID string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[serverID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServerNotFound, serverID)
	}
	return c, nil
}

// FetchPage implements Fetcher.
func (r *Registry) FetchPage(ctx context.Context, serverID, path string) (json.RawMessage, error) {
	c, err := r.Client(serverID)
	if err != nil {
		return nil, err
	}
	return c.Get(ctx, path)
}

// Kind resolves the backend of a server, probing it once when configured
// as auto. The result is cached for the life of the registry.
func (r *Registry) Kind(ctx context.Context, serverID string) (Kind, error) {
	r.mu.RLock()
	kind, ok := r.kinds[serverID]
	r.mu.RUnlock()
	if ok {
		return kind, nil
	}

	kind, err := DetectKind(ctx, r, serverID)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.kinds[serverID] = kind
	r.mu.Unlock()
	return kind, nil
}

// DetectKind asks the server for its version. Woodpecker answers with a
// "source" pointing at its repository; anything else is treated as Drone.
func DetectKind(ctx context.Context, f Fetcher, serverID string) (Kind, error) {
	data, err := f.FetchPage(ctx, serverID, VersionPath)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return KindDrone, nil
		}
		return "", err
	}

	var version struct {
		Source  string `json:"source"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &version); err != nil {
		return KindDrone, nil
	}
	if strings.Contains(strings.ToLower(version.Source), "woodpecker") {
		return KindWoodpecker, nil
	}
	return KindDrone, nil
}

// ExistingBranches returns the repository's branch names, or nil when the
// backend cannot list them (Drone).
func ExistingBranches(ctx context.Context, f Fetcher, serverID string, kind Kind, repo Repo) (map[string]struct{}, error) {
	if kind != KindWoodpecker {
		return nil, nil
	}
	data, err := f.FetchPage(ctx, serverID, BranchesPath(repo))
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("decode branches: %w", err)
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set, nil
}

// OpenPullRequests returns the open PR numbers as strings, or nil when the
// backend cannot list them (Drone).
func OpenPullRequests(ctx context.Context, f Fetcher, serverID string, kind Kind, repo Repo) (map[string]struct{}, error) {
	if kind != KindWoodpecker {
		return nil, nil
	}
	data, err := f.FetchPage(ctx, serverID, PullRequestsPath(repo))
	if err != nil {
		return nil, err
	}
	var prs []struct {
		Index json.Number `json:"index"`
		Title string      `json:"title"`
	}
	if err := json.Unmarshal(data, &prs); err != nil {
		return nil, fmt.Errorf("decode pull requests: %w", err)
	}
	set := make(map[string]struct{}, len(prs))
	for _, pr := range prs {
		if pr.Index != "" {
			set[pr.Index.String()] = struct{}{}
		}
	}
	return set, nil
}
