package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"moirai-dashboard/src/config"
	"moirai-dashboard/src/grouping"
	"moirai-dashboard/src/provider"
	"moirai-dashboard/src/stats"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// fakeSource serves one page of builds plus branch and PR listings.
type fakeSource struct {
	kind      provider.Kind
	builds    string
	branches  string
	prs       string
	repos     string
	failFirst int // fail this many builds requests before succeeding
	failAll   error

	mu    sync.Mutex
	calls int
}

func (f *fakeSource) Kind(ctx context.Context, serverID string) (provider.Kind, error) {
	if serverID != "server-0" {
		return "", provider.ErrServerNotFound
	}
	return f.kind, nil
}

func (f *fakeSource) FetchPage(ctx context.Context, serverID, path string) (json.RawMessage, error) {
	switch {
	case strings.Contains(path, "/builds?") || strings.Contains(path, "/pipelines?"):
		f.mu.Lock()
		f.calls++
		n := f.calls
		f.mu.Unlock()
		if f.failAll != nil {
			return nil, f.failAll
		}
		if n <= f.failFirst {
			return nil, &provider.StatusError{StatusCode: 500, Body: "boom"}
		}
		if strings.Contains(path, "page=1&") {
			return json.RawMessage(f.builds), nil
		}
		return json.RawMessage(`[]`), nil
	case strings.HasSuffix(path, "/branches"):
		if f.branches == "" {
			return nil, &provider.StatusError{StatusCode: 404}
		}
		return json.RawMessage(f.branches), nil
	case strings.HasSuffix(path, "/pull_requests"):
		return json.RawMessage(f.prs), nil
	case path == provider.ReposPath:
		return json.RawMessage(f.repos), nil
	}
	return nil, fmt.Errorf("unexpected path %s", path)
}

func ago(hours int) int64 {
	return now.Add(-time.Duration(hours) * time.Hour).Unix()
}

func woodpeckerBuilds() string {
	type rec map[string]any
	list := []rec{
		{"number": 9, "status": "failure", "event": "push", "branch": "main", "author": "alice", "commit": "c9", "created": ago(1), "started": ago(1), "finished": ago(1) + 300},
		{"number": 8, "status": "success", "event": "pull_request", "ref": "refs/pull/3/head", "title": "Add login", "branch": "login", "author": "bob", "created": ago(2), "started": ago(2), "finished": ago(2) + 120},
		{"number": 7, "status": "success", "event": "pull_request", "ref": "refs/pull/7/head", "branch": "stale", "author": "bob", "created": ago(3)},
		{"number": 6, "status": "success", "event": "cron", "cron": "nightly", "branch": "main", "author": "alice", "created": ago(4), "started": ago(4), "finished": ago(4) + 600},
		{"number": 5, "status": "success", "event": "push", "branch": "old-feature", "author": "carol", "created": ago(5), "started": ago(5), "finished": ago(5) + 60},
		{"number": 4, "status": "success", "event": "push", "branch": "main", "author": "alice", "commit": "c4", "created": ago(6), "started": ago(6), "finished": ago(6) + 240},
		{"number": 1, "status": "success", "event": "push", "branch": "main", "author": "alice", "created": ago(24 * 60)},
	}
	data, _ := json.Marshal(list)
	return string(data)
}

func newService(src Source) *Service {
	return NewService(src, config.DefaultSettings(), nil, WithClock(func() time.Time { return now }), WithLocation(time.UTC))
}

func repo() provider.Repo {
	return provider.Repo{Owner: "acme", Name: "api"}
}

func TestLoad_WindowAndFilters(t *testing.T) {
	src := &fakeSource{
		kind:     provider.KindWoodpecker,
		builds:   woodpeckerBuilds(),
		branches: `["main","login"]`,
		prs:      `[{"index":3}]`,
	}
	svc := newService(src)

	snap, err := svc.Load(context.Background(), "server-0", repo(), 0)
	require.NoError(t, err)

	require.Equal(t, 30, snap.PeriodDays)
	require.Len(t, snap.Builds, 6, "build #1 is outside the 30 day window")
	require.Contains(t, snap.ExistingBranches, "main")
	require.Contains(t, snap.OpenPRs, "3")

	entries := svc.Branches(snap, ListOptions{})
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.StatsKey
	}
	require.Equal(t, []string{"branch:main", "pr:3"}, keys)
	require.Equal(t, int64(9), entries[0].Number)
	require.Equal(t, "#3: Add login", entries[1].DisplayName)
}

func TestLoad_BranchLookupFailureDisablesFilter(t *testing.T) {
	src := &fakeSource{kind: provider.KindWoodpecker, builds: woodpeckerBuilds(), prs: `[]`}
	svc := newService(src)

	snap, err := svc.Load(context.Background(), "server-0", repo(), 30)
	require.NoError(t, err)
	require.Nil(t, snap.ExistingBranches)

	entries := svc.Branches(snap, ListOptions{Query: "feature"})
	require.Len(t, entries, 1)
	require.Equal(t, "old-feature", entries[0].DisplayName)
}

func TestLoad_DroneHasNoFilters(t *testing.T) {
	src := &fakeSource{kind: provider.KindDrone, builds: woodpeckerBuilds()}
	svc := newService(src)

	snap, err := svc.Load(context.Background(), "server-0", repo(), 30)
	require.NoError(t, err)
	require.Nil(t, snap.ExistingBranches)
	require.Nil(t, snap.OpenPRs)

	require.Len(t, svc.Branches(snap, ListOptions{}), 4)
}

func TestLoad_ErrorPropagates(t *testing.T) {
	upstream := &provider.StatusError{StatusCode: 401}
	svc := newService(&fakeSource{kind: provider.KindDrone, failAll: upstream})

	_, err := svc.Load(context.Background(), "server-0", repo(), 30)
	require.True(t, errors.Is(err, provider.ErrAuthFailed))

	_, err = svc.Load(context.Background(), "server-9", repo(), 30)
	require.ErrorIs(t, err, provider.ErrServerNotFound)
}

func TestTabs(t *testing.T) {
	src := &fakeSource{kind: provider.KindWoodpecker, builds: woodpeckerBuilds(), branches: `["main","login","old-feature"]`, prs: `[{"index":3}]`}
	svc := newService(src)
	snap, err := svc.Load(context.Background(), "server-0", repo(), 30)
	require.NoError(t, err)

	crons := svc.Crons(snap, ListOptions{})
	require.Len(t, crons, 1)
	require.Equal(t, "cron:nightly", crons[0].StatsKey)

	overview := svc.Overview(snap)
	require.Equal(t, 6, overview.Summary.Total)
	require.Equal(t, stats.HealthGood, overview.Health)

	infra := svc.Infra(snap)
	require.Equal(t, int64(300+120+600+60+240), infra.Cost.TotalCPUSeconds)
	require.Equal(t, "main", infra.Cost.PerBranch[0].Branch)
	require.InDelta(t, infra.Cost.EstimatedCost, infra.MonthlyEstimate, 1e-9, "30 day period projects to itself")

	lb := svc.Contributors(snap)
	require.Equal(t, "alice", lb.Contributors[0].Login)
	require.Equal(t, 3, lb.Contributors[0].TotalBuilds)
	require.Equal(t, 2, lb.Contributors[0].Streak)
	require.Equal(t, 0, lb.Contributors[0].CurrentStreak, "latest build #9 failed")

	details := svc.Details(snap, "branch:main")
	require.Equal(t, 2, details.Summary.Total)
	require.Equal(t, int64(4), details.Builds[0].Number)
	require.Equal(t, int64(9), details.Builds[1].Number)
}

func TestView(t *testing.T) {
	svc := newService(&fakeSource{kind: provider.KindDrone, builds: woodpeckerBuilds()})
	snap, err := svc.Load(context.Background(), "server-0", repo(), 30)
	require.NoError(t, err)

	for _, name := range TabNames {
		v, err := svc.View(snap, name, ListOptions{Sort: grouping.ModeName})
		require.NoError(t, err, name)
		require.NotNil(t, v, name)
	}

	_, err = svc.View(snap, "billing", ListOptions{})
	require.ErrorIs(t, err, ErrUnknownTab)
}

func TestLoadAll_IsolatesFailures(t *testing.T) {
	src := &fakeSource{kind: provider.KindDrone, builds: woodpeckerBuilds(), failFirst: 1}
	svc := newService(src)

	tabs := svc.LoadAll(context.Background(), "server-0", repo(), 30, ListOptions{})

	errs := 0
	for _, err := range []error{tabs.Branches.Err(), tabs.Crons.Err(), tabs.Overview.Err(), tabs.Infra.Err(), tabs.Contributors.Err()} {
		if err != nil {
			errs++
		}
	}
	require.Equal(t, 1, errs, "exactly one tab should fail")

	if tabs.Overview.Err() == nil {
		require.Equal(t, 6, tabs.Overview.Data.Summary.Total)
	}
	if tabs.Contributors.Err() == nil {
		require.NotEmpty(t, tabs.Contributors.Data.Contributors)
	}
}

func TestLoadAll_AllFail(t *testing.T) {
	svc := newService(&fakeSource{kind: provider.KindDrone, failAll: errors.New("dial tcp: refused")})

	tabs := svc.LoadAll(context.Background(), "server-0", repo(), 30, ListOptions{})
	require.Error(t, tabs.Branches.Err())
	require.Error(t, tabs.Contributors.Err())
	require.Equal(t, "dial tcp: refused", tabs.Infra.Error)
}

func TestRepos(t *testing.T) {
	src := &fakeSource{
		kind:   provider.KindDrone,
		builds: `[]`,
		repos:  `[{"namespace":"acme","name":"api","id":1},{"owner":"acme","name":"web","id":2},{"slug":"broken"}]`,
	}
	svc := newService(src)

	repos, err := svc.Repos(context.Background(), "server-0")
	require.NoError(t, err)
	require.Equal(t, []provider.Repo{{Owner: "acme", Name: "api", ID: 1}, {Owner: "acme", Name: "web", ID: 2}}, repos)

	settings := config.DefaultSettings()
	settings.FilterEmptyRepos = true
	filtered := NewService(src, settings, nil)
	repos, err = filtered.Repos(context.Background(), "server-0")
	require.NoError(t, err)
	require.Empty(t, repos, "every repo has an empty build list")
}
