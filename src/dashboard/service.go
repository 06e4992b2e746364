// Package dashboard assembles the engines into the five dashboard tabs:
// branches, crons, overview, infra and contributors.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"moirai-dashboard/src/build"
	"moirai-dashboard/src/config"
	"moirai-dashboard/src/fetch"
	"moirai-dashboard/src/logger"
	"moirai-dashboard/src/provider"
)

// Source is what the dashboard needs from the configured servers.
// *provider.Registry implements it.
type Source interface {
	provider.Fetcher
	Kind(ctx context.Context, serverID string) (provider.Kind, error)
}

// Service loads snapshots and derives tab views from them.
type Service struct {
	source   Source
	settings config.Settings
	logger   logger.Logger
	location *time.Location
	now      func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithLocation sets the zone used for the hourly distribution.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.location = loc }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a dashboard service.
func NewService(source Source, settings config.Settings, log logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	s := &Service{
		source:   source,
		settings: settings,
		logger:   log,
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns the settings the service was built with.
func (s *Service) Settings() config.Settings {
	return s.settings
}

// Snapshot is one fetch cycle for one repository. It is owned by the
// caller and reused to re-filter or re-sort without refetching.
type Snapshot struct {
	ServerID   string        `json:"server_id"`
	Repo       provider.Repo `json:"repo"`
	Kind       provider.Kind `json:"kind"`
	PeriodDays int           `json:"period_days"`
	FetchedAt  time.Time     `json:"fetched_at"`
	// Builds are newest first, as the server delivered them.
	Builds []build.Build `json:"builds"`

	// Nil when the backend cannot list them or the lookup failed.
	ExistingBranches map[string]struct{} `json:"-"`
	OpenPRs          map[string]struct{} `json:"-"`
}

// Load fetches the repository's builds for periodDays. A non-positive
// period uses the configured one. Branch and PR lookups are best effort;
// when they fail the corresponding filter is disabled.
func (s *Service) Load(ctx context.Context, serverID string, repo provider.Repo, periodDays int) (*Snapshot, error) {
	if periodDays <= 0 {
		periodDays = s.settings.StatsPeriodDays
	}

	kind, err := s.source.Kind(ctx, serverID)
	if err != nil {
		return nil, err
	}

	o := &fetch.Orchestrator{
		Fetcher:       s.source,
		ServerID:      serverID,
		Kind:          kind,
		Repo:          repo,
		BuildsPerPage: s.settings.BuildsPerPage,
		Now:           s.now,
	}
	builds, err := o.Builds(ctx, periodDays)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("loaded %d builds for %s on %s (%s, %dd)", len(builds), repo, serverID, kind, periodDays)

	snap := &Snapshot{
		ServerID:   serverID,
		Repo:       repo,
		Kind:       kind,
		PeriodDays: periodDays,
		FetchedAt:  s.now(),
		Builds:     builds,
	}

	snap.ExistingBranches, err = provider.ExistingBranches(ctx, s.source, serverID, kind, repo)
	if err != nil {
		s.logger.Error("branch lookup for %s failed, showing all branches: %v", repo, err)
		snap.ExistingBranches = nil
	}
	snap.OpenPRs, err = provider.OpenPullRequests(ctx, s.source, serverID, kind, repo)
	if err != nil {
		s.logger.Error("pull request lookup for %s failed, showing all PRs: %v", repo, err)
		snap.OpenPRs = nil
	}

	return snap, nil
}

// Repos lists repositories visible on a server. With FilterEmptyRepos set,
// repositories without builds are dropped.
func (s *Service) Repos(ctx context.Context, serverID string) ([]provider.Repo, error) {
	data, err := s.source.FetchPage(ctx, serverID, provider.ReposPath)
	if err != nil {
		return nil, err
	}
	raws, err := build.DecodeRaw(data)
	if err != nil {
		return nil, fmt.Errorf("decode repos: %w", err)
	}

	repos := make([]provider.Repo, 0, len(raws))
	for _, r := range raws {
		repo := repoFromRaw(r)
		if repo.Name == "" && repo.ID == 0 {
			continue
		}
		repos = append(repos, repo)
	}

	if !s.settings.FilterEmptyRepos {
		return repos, nil
	}
	kind, err := s.source.Kind(ctx, serverID)
	if err != nil {
		return nil, err
	}
	return fetch.FilterReposWithBuilds(ctx, s.source, serverID, kind, repos, s.logger), nil
}

// repoFromRaw reads Woodpecker (owner) and Drone (namespace) listings.
func repoFromRaw(r build.Raw) provider.Repo {
	owner, _ := r["owner"].(string)
	if owner == "" {
		owner, _ = r["namespace"].(string)
	}
	name, _ := r["name"].(string)
	var id int64
	if f, ok := r["id"].(float64); ok {
		id = int64(f)
	}
	return provider.Repo{Owner: owner, Name: name, ID: id}
}
