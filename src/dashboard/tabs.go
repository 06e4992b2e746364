package dashboard

import (
	"moirai-dashboard/src/build"
	"moirai-dashboard/src/cost"
	"moirai-dashboard/src/grouping"
	"moirai-dashboard/src/ranking"
	"moirai-dashboard/src/stats"
)

// ListOptions narrows and orders the branch and cron lists.
type ListOptions struct {
	Query string
	Sort  grouping.Mode
}

// Branches returns the latest build per branch and open PR.
func (s *Service) Branches(snap *Snapshot, opts ListOptions) []grouping.Entry {
	entries := grouping.GroupByBranch(snap.Builds, snap.ExistingBranches, snap.OpenPRs)
	entries = grouping.FilterByName(entries, opts.Query)
	return grouping.Sort(entries, grouping.ParseMode(string(opts.Sort)))
}

// Crons returns the latest build per cron job, newest first unless a
// sort mode is given.
func (s *Service) Crons(snap *Snapshot, opts ListOptions) []grouping.Entry {
	entries := grouping.FilterByName(grouping.GroupByCron(snap.Builds), opts.Query)
	if opts.Sort == "" {
		return entries
	}
	return grouping.Sort(entries, grouping.ParseMode(string(opts.Sort)))
}

// Overview returns the executive rollup.
func (s *Service) Overview(snap *Snapshot) stats.Overview {
	return stats.BuildOverview(snap.Builds, s.location)
}

// Infra is the infrastructure and cost panel.
type Infra struct {
	Summary         stats.Summary `json:"summary"`
	Cost            cost.Report   `json:"cost"`
	MonthlyEstimate float64       `json:"monthly_estimate"`
	PeriodDays      int           `json:"period_days"`
}

// Infra returns build counts and the cost estimate for the snapshot.
func (s *Service) Infra(snap *Snapshot) Infra {
	report := cost.Estimate(snap.Builds, s.settings.CPUCostPerHour)
	return Infra{
		Summary:         stats.Calculate(snap.Builds),
		Cost:            report,
		MonthlyEstimate: cost.ProjectMonthly(report, snap.PeriodDays),
		PeriodDays:      snap.PeriodDays,
	}
}

// Contributors ranks authors over the snapshot, folding oldest first.
func (s *Service) Contributors(snap *Snapshot) ranking.Leaderboard {
	return ranking.Aggregate(build.Chronological(snap.Builds))
}

// Details is the "view details" panel for one grouped entry.
type Details struct {
	StatsKey string        `json:"stats_key"`
	Summary  stats.Summary `json:"summary"`
	Health   stats.Health  `json:"health"`
	// Builds are oldest first.
	Builds []BuildRow `json:"builds"`
}

// BuildRow is a build annotated with the long-build flag.
type BuildRow struct {
	build.Build
	Long bool `json:"long"`
}

// Details summarises the builds behind a stats key.
func (s *Service) Details(snap *Snapshot, statsKey string) Details {
	builds := build.Chronological(grouping.Select(snap.Builds, statsKey))
	summary := stats.Calculate(builds)

	rows := make([]BuildRow, len(builds))
	for i, b := range builds {
		rows[i] = BuildRow{Build: b, Long: stats.IsLongBuild(b, summary.P90)}
	}
	return Details{
		StatsKey: statsKey,
		Summary:  summary,
		Health:   stats.Classify(summary),
		Builds:   rows,
	}
}
