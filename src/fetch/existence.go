package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"moirai-dashboard/src/build"
	"moirai-dashboard/src/logger"
	"moirai-dashboard/src/provider"
)

// BatchSize caps concurrent existence checks against one server.
const BatchSize = 10

// HasBuilds reports whether the repository has at least one build.
func HasBuilds(ctx context.Context, f provider.Fetcher, serverID string, kind provider.Kind, repo provider.Repo) (bool, error) {
	data, err := f.FetchPage(ctx, serverID, provider.BuildsPath(kind, repo, 1, 1))
	if err != nil {
		return false, err
	}
	raws, err := build.DecodeRaw(data)
	if err != nil {
		return false, err
	}
	return len(raws) > 0, nil
}

// FilterReposWithBuilds drops repositories without builds. Checks run in
// batches of BatchSize; a failed check keeps the repository. Order is
// preserved.
func FilterReposWithBuilds(ctx context.Context, f provider.Fetcher, serverID string, kind provider.Kind, repos []provider.Repo, log logger.Logger) []provider.Repo {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	keep := make([]bool, len(repos))

	for start := 0; start < len(repos); start += BatchSize {
		end := min(start+BatchSize, len(repos))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				ok, err := HasBuilds(ctx, f, serverID, kind, repos[i])
				if err != nil {
					log.Debug("existence check for %s failed, keeping it: %v", repos[i], err)
					keep[i] = true
					return nil
				}
				keep[i] = ok
				return nil
			})
		}
		_ = g.Wait()
	}

	out := make([]provider.Repo, 0, len(repos))
	for i, r := range repos {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out
}
