package mcp

import (
	"moirai-dashboard/src/build"
	"moirai-dashboard/src/grouping"
	"moirai-dashboard/src/stats"
)

// Default entry limits per tier. Failing branches are the highest signal
// and get the most room.
const (
	DefaultTier1Limit = 15
	DefaultTier2Limit = 5
	DefaultTier3Limit = 3
)

// degradedBelow is the success rate under which a green branch still
// counts as degraded. It matches the "good" health threshold.
const degradedBelow = 80

// tier returns 1 for entries whose latest build broke, 2 for entries with
// a poor history and 3 otherwise. Running builds alone do not degrade.
func tier(latestStatus string, summary stats.Summary) int {
	switch latestStatus {
	case build.StatusFailure, build.StatusError, build.StatusKilled:
		return 1
	}
	settled := summary.Total - summary.Running - summary.Pending
	if settled > 0 && stats.Rate(summary.Success, settled) < degradedBelow {
		return 2
	}
	return 3
}

// TierEntries splits grouped entries into failing, degraded and healthy
// tiers. history supplies the builds behind each entry. Entries keep
// their input order within a tier; tier1Limit scales the other limits.
func TierEntries(entries []grouping.Entry, history []build.Build, tier1Limit int) BranchStatusResponse {
	t1, t2, t3 := tierLimits(tier1Limit)

	var resp BranchStatusResponse
	resp.TotalCount = len(entries)
	for _, e := range entries {
		summary := stats.Calculate(grouping.Select(history, e.StatsKey))
		f := toFinding(e, summary)

		switch tier(e.Status, summary) {
		case 1:
			resp.Failing = appendLimited(resp.Failing, f, t1, &resp.Omitted)
		case 2:
			resp.Degraded = appendLimited(resp.Degraded, f, t2, &resp.Omitted)
		default:
			resp.Healthy = appendLimited(resp.Healthy, f, t3, &resp.Omitted)
		}
	}
	return resp
}

func tierLimits(tier1 int) (int, int, int) {
	if tier1 <= 0 || tier1 == DefaultTier1Limit {
		return DefaultTier1Limit, DefaultTier2Limit, DefaultTier3Limit
	}
	return tier1, max(1, tier1/3), max(1, tier1/5)
}

func appendLimited(list []BranchFinding, f BranchFinding, limit int, omitted *int) []BranchFinding {
	if len(list) >= limit {
		*omitted++
		return list
	}
	return append(list, f)
}

func toFinding(e grouping.Entry, summary stats.Summary) BranchFinding {
	return BranchFinding{
		Name:        e.Name(),
		StatsKey:    e.StatsKey,
		Status:      e.Status,
		Number:      e.Number,
		Author:      e.AuthorLogin,
		Commit:      shortCommit(e.Commit),
		Message:     compactMessage(e.Message),
		Builds:      summary.Total,
		SuccessRate: summary.SuccessRate,
		Health:      stats.Classify(summary),
	}
}
