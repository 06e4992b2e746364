package stats

import (
	"sort"
	"time"

	"moirai-dashboard/src/build"
)

const secondsPerDay = 86400

// Hourly counts builds by hour of day of their creation time in loc.
// Builds without a creation time are not counted.
func Hourly(builds []build.Build, loc *time.Location) [24]int {
	if loc == nil {
		loc = time.Local
	}
	var hours [24]int
	for _, b := range builds {
		if b.Created == nil {
			continue
		}
		hours[time.Unix(*b.Created, 0).In(loc).Hour()]++
	}
	return hours
}

// Day is one point of the daily trend.
type Day struct {
	Date        string  `json:"date"`
	Total       int     `json:"total"`
	Success     int     `json:"success"`
	Failure     int     `json:"failure"`
	AvgDuration float64 `json:"avg_duration"`
	SuccessRate int     `json:"success_rate"`
}

// DailyTrend buckets builds by UTC calendar date (created/86400), oldest
// date first. Unlike Hourly this is always UTC.
func DailyTrend(builds []build.Build) []Day {
	type acc struct {
		day       Day
		durations []int64
	}
	days := make(map[int64]*acc)

	for _, b := range builds {
		if b.Created == nil {
			continue
		}
		key := *b.Created / secondsPerDay
		a, ok := days[key]
		if !ok {
			a = &acc{day: Day{Date: time.Unix(key*secondsPerDay, 0).UTC().Format(time.DateOnly)}}
			days[key] = a
		}
		a.day.Total++
		switch b.Status {
		case build.StatusSuccess:
			a.day.Success++
		case build.StatusFailure:
			a.day.Failure++
		}
		if d, ok := b.Duration(); ok {
			a.durations = append(a.durations, d)
		}
	}

	keys := make([]int64, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]Day, 0, len(keys))
	for _, k := range keys {
		a := days[k]
		a.day.AvgDuration = mean(a.durations)
		a.day.SuccessRate = Rate(a.day.Success, a.day.Total)
		out = append(out, a.day)
	}
	return out
}

// Window keeps builds created at or after now-periodDays. Builds without a
// creation time fall outside every window.
func Window(builds []build.Build, periodDays int, now time.Time) []build.Build {
	cutoff := now.Unix() - int64(periodDays)*secondsPerDay
	out := make([]build.Build, 0, len(builds))
	for _, b := range builds {
		if b.Created != nil && *b.Created >= cutoff {
			out = append(out, b)
		}
	}
	return out
}
