package stats

import (
	"time"

	"moirai-dashboard/src/build"
)

// Overview is the executive rollup for one repository and period.
type Overview struct {
	Summary    Summary       `json:"summary"`
	Health     Health        `json:"health"`
	Hourly     [24]int       `json:"hourly"`
	Daily      []Day         `json:"daily"`
	LongBuilds []build.Build `json:"long_builds"`
}

// BuildOverview computes the overview. Hourly buckets use loc; the daily
// trend stays in UTC.
func BuildOverview(builds []build.Build, loc *time.Location) Overview {
	summary := Calculate(builds)

	var long []build.Build
	for _, b := range builds {
		if IsLongBuild(b, summary.P90) {
			long = append(long, b)
		}
	}

	return Overview{
		Summary:    summary,
		Health:     Classify(summary),
		Hourly:     Hourly(builds, loc),
		Daily:      DailyTrend(builds),
		LongBuilds: long,
	}
}
