// Package stats computes summaries, health and time distributions over a
// set of builds. Every function is pure; the same input always yields the
// same output.
package stats

import (
	"math"
	"sort"

	"moirai-dashboard/src/build"
)

// Summary describes one build set (one entity over one period).
// MedianDuration is nil when no build finished.
type Summary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failure int `json:"failure"`
	Running int `json:"running"`
	Pending int `json:"pending"`
	// Other counts everything that is not one of the four above,
	// including Error, Killed and Skipped.
	Other int `json:"other"`

	Error   int `json:"error"`
	Killed  int `json:"killed"`
	Skipped int `json:"skipped"`

	SuccessRate    int      `json:"success_rate"`
	Finished       int      `json:"finished"`
	MedianDuration *float64 `json:"median_duration"`
	P50            int64    `json:"p50"`
	P90            int64    `json:"p90"`
	P99            int64    `json:"p99"`
	AvgDuration    float64  `json:"avg_duration"`
}

// Calculate summarises builds.
func Calculate(builds []build.Build) Summary {
	var s Summary
	durations := make([]int64, 0, len(builds))

	for _, b := range builds {
		s.Total++
		switch b.Status {
		case build.StatusSuccess:
			s.Success++
		case build.StatusFailure:
			s.Failure++
		case build.StatusRunning:
			s.Running++
		case build.StatusPending:
			s.Pending++
		default:
			s.Other++
		}
		switch b.Status {
		case build.StatusError:
			s.Error++
		case build.StatusKilled:
			s.Killed++
		case build.StatusSkipped:
			s.Skipped++
		}

		if d, ok := b.Duration(); ok {
			durations = append(durations, d)
		}
	}

	s.SuccessRate = Rate(s.Success, s.Total)

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	s.Finished = len(durations)
	s.MedianDuration = median(durations)
	s.P50 = Percentile(durations, 50)
	s.P90 = Percentile(durations, 90)
	s.P99 = Percentile(durations, 99)
	s.AvgDuration = mean(durations)

	return s
}

// Rate returns round(part/total*100), or 0 when total is 0.
func Rate(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Percentile indexes the ascending durations at floor(len*p/100), clamped
// to the last element. An empty set yields 0.
func Percentile(sorted []int64, p int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// IsLongBuild reports whether b ran longer than p90. Meaningless (false)
// until p90 is known.
func IsLongBuild(b build.Build, p90 int64) bool {
	if p90 <= 0 {
		return false
	}
	d, ok := b.Duration()
	return ok && d > p90
}

func median(sorted []int64) *float64 {
	n := len(sorted)
	if n == 0 {
		return nil
	}
	var m float64
	if n%2 == 1 {
		m = float64(sorted[n/2])
	} else {
		m = float64(sorted[n/2-1]+sorted[n/2]) / 2
	}
	return &m
}

func mean(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
