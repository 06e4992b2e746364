// Package fetch pages build listings out of a CI server and trims them to
// a size and time window.
package fetch

import (
	"context"
	"time"

	"moirai-dashboard/src/build"
	"moirai-dashboard/src/provider"
)

// DefaultBuildsPerPage is how many builds a period fetch collects when the
// caller does not configure it.
const DefaultBuildsPerPage = 100

// Orchestrator fetches the builds of one repository on one server.
type Orchestrator struct {
	Fetcher       provider.Fetcher
	ServerID      string
	Kind          provider.Kind
	Repo          provider.Repo
	BuildsPerPage int
	// Now defaults to time.Now.
	Now func() time.Time
}

// FetchAllBuilds requests pages of provider.PageSize until target builds
// are collected or the server runs out. The result never exceeds target.
// Fetch errors are returned exactly as the Fetcher produced them.
func (o *Orchestrator) FetchAllBuilds(ctx context.Context, target int) ([]build.Raw, error) {
	var all []build.Raw
	for page := 1; len(all) < target; page++ {
		data, err := o.Fetcher.FetchPage(ctx, o.ServerID, provider.BuildsPath(o.Kind, o.Repo, page, provider.PageSize))
		if err != nil {
			return nil, err
		}
		raws, items, err := build.DecodePage(data)
		if err != nil {
			return nil, err
		}
		if items == 0 {
			break
		}
		all = append(all, raws...)
		if items < provider.PageSize {
			break
		}
	}

	if len(all) > target {
		all = all[:target]
	}
	return all, nil
}

// FetchBuildsForPeriod fetches BuildsPerPage builds and keeps those created
// within the last periodDays.
func (o *Orchestrator) FetchBuildsForPeriod(ctx context.Context, periodDays int) ([]build.Raw, error) {
	target := o.BuildsPerPage
	if target <= 0 {
		target = DefaultBuildsPerPage
	}
	raws, err := o.FetchAllBuilds(ctx, target)
	if err != nil {
		return nil, err
	}

	cutoff := o.now().Unix() - int64(periodDays)*86400
	out := make([]build.Raw, 0, len(raws))
	for _, r := range raws {
		if created, ok := r.CreatedAt(); ok && created >= cutoff {
			out = append(out, r)
		}
	}
	return out, nil
}

// Builds fetches the period and normalizes it, newest first.
func (o *Orchestrator) Builds(ctx context.Context, periodDays int) ([]build.Build, error) {
	raws, err := o.FetchBuildsForPeriod(ctx, periodDays)
	if err != nil {
		return nil, err
	}
	return build.NormalizeAll(raws, o.Kind), nil
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}
