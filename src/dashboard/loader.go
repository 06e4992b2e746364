package dashboard

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"moirai-dashboard/src/grouping"
	"moirai-dashboard/src/metrics"
	"moirai-dashboard/src/provider"
	"moirai-dashboard/src/ranking"
	"moirai-dashboard/src/stats"
)

// Tab names.
const (
	TabBranches     = "branches"
	TabCrons        = "crons"
	TabOverview     = "overview"
	TabInfra        = "infra"
	TabContributors = "contributors"
)

// TabNames lists the tabs in display order.
var TabNames = []string{TabBranches, TabCrons, TabOverview, TabInfra, TabContributors}

var ErrUnknownTab = errors.New("unknown tab")

// TabResult carries one tab's data or its error.
type TabResult[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
	err   error
}

// Err returns the load error, if any.
func (t TabResult[T]) Err() error {
	return t.err
}

// Tabs is the result of LoadAll. Each tab fails on its own.
type Tabs struct {
	Branches     TabResult[[]grouping.Entry]    `json:"branches"`
	Crons        TabResult[[]grouping.Entry]    `json:"crons"`
	Overview     TabResult[stats.Overview]      `json:"overview"`
	Infra        TabResult[Infra]               `json:"infra"`
	Contributors TabResult[ranking.Leaderboard] `json:"contributors"`
}

// LoadAll loads every tab concurrently. Each tab fetches its own snapshot
// so one failing load never blocks or corrupts another.
func (s *Service) LoadAll(ctx context.Context, serverID string, repo provider.Repo, periodDays int, opts ListOptions) Tabs {
	var tabs Tabs
	var g errgroup.Group

	g.Go(func() error {
		tabs.Branches = loadTab(ctx, s, TabBranches, serverID, repo, periodDays, func(snap *Snapshot) []grouping.Entry {
			return s.Branches(snap, opts)
		})
		return nil
	})
	g.Go(func() error {
		tabs.Crons = loadTab(ctx, s, TabCrons, serverID, repo, periodDays, func(snap *Snapshot) []grouping.Entry {
			return s.Crons(snap, opts)
		})
		return nil
	})
	g.Go(func() error {
		tabs.Overview = loadTab(ctx, s, TabOverview, serverID, repo, periodDays, s.Overview)
		return nil
	})
	g.Go(func() error {
		tabs.Infra = loadTab(ctx, s, TabInfra, serverID, repo, periodDays, s.Infra)
		return nil
	})
	g.Go(func() error {
		tabs.Contributors = loadTab(ctx, s, TabContributors, serverID, repo, periodDays, s.Contributors)
		return nil
	})

	_ = g.Wait()
	return tabs
}

func loadTab[T any](ctx context.Context, s *Service, name, serverID string, repo provider.Repo, periodDays int, view func(*Snapshot) T) TabResult[T] {
	snap, err := s.Load(ctx, serverID, repo, periodDays)
	if err != nil {
		s.logger.Error("%s tab for %s failed: %v", name, repo, err)
		metrics.IncTabFailure(name)
		return TabResult[T]{Error: err.Error(), err: err}
	}
	return TabResult[T]{Data: view(snap)}
}

// View derives the named tab from a snapshot.
func (s *Service) View(snap *Snapshot, tab string, opts ListOptions) (any, error) {
	switch tab {
	case TabBranches:
		return s.Branches(snap, opts), nil
	case TabCrons:
		return s.Crons(snap, opts), nil
	case TabOverview:
		return s.Overview(snap), nil
	case TabInfra:
		return s.Infra(snap), nil
	case TabContributors:
		return s.Contributors(snap), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTab, tab)
}
