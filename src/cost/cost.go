// Package cost turns build durations into CPU hours and an estimated
// spend, and ranks branches and builds by what they cost.
package cost

import (
	"sort"

	"moirai-dashboard/src/build"
)

// DefaultCPUCostPerHour is the rate used when none is configured.
const DefaultCPUCostPerHour = 0.05

// UnknownBranch groups finished builds that carry no branch.
const UnknownBranch = "unknown"

const topN = 10

// BranchCost is the accumulated cost of one branch.
type BranchCost struct {
	Branch       string  `json:"branch"`
	TotalSeconds int64   `json:"total_seconds"`
	Builds       int     `json:"builds"`
	AvgDuration  float64 `json:"avg_duration"`
	Cost         float64 `json:"cost"`
}

// BuildCost is one finished build with its cost.
type BuildCost struct {
	Build    build.Build `json:"build"`
	Duration int64       `json:"duration"`
	Cost     float64     `json:"cost"`
}

// Report is the infrastructure panel for one build set.
type Report struct {
	CPUCostPerHour  float64      `json:"cpu_cost_per_hour"`
	TotalCPUSeconds int64        `json:"total_cpu_seconds"`
	TotalCPUHours   float64      `json:"total_cpu_hours"`
	EstimatedCost   float64      `json:"estimated_cost"`
	PerBranch       []BranchCost `json:"per_branch"`
	MostExpensive   []BuildCost  `json:"most_expensive"`
}

// Estimate costs every build that has both a start and finish time.
// PerBranch is ranked by cost and MostExpensive by raw duration, each
// truncated to the top ten.
func Estimate(builds []build.Build, costPerCPUHour float64) Report {
	r := Report{CPUCostPerHour: costPerCPUHour}
	branches := make(map[string]*BranchCost)
	var costed []BuildCost

	for _, b := range builds {
		d, ok := b.Duration()
		if !ok {
			continue
		}
		r.TotalCPUSeconds += d

		name := b.Branch
		if name == "" {
			name = UnknownBranch
		}
		bc, ok := branches[name]
		if !ok {
			bc = &BranchCost{Branch: name}
			branches[name] = bc
		}
		bc.TotalSeconds += d
		bc.Builds++

		costed = append(costed, BuildCost{Build: b, Duration: d, Cost: price(d, costPerCPUHour)})
	}

	r.TotalCPUHours = float64(r.TotalCPUSeconds) / 3600
	r.EstimatedCost = r.TotalCPUHours * costPerCPUHour

	r.PerBranch = make([]BranchCost, 0, len(branches))
	for _, bc := range branches {
		bc.AvgDuration = float64(bc.TotalSeconds) / float64(bc.Builds)
		bc.Cost = price(bc.TotalSeconds, costPerCPUHour)
		r.PerBranch = append(r.PerBranch, *bc)
	}
	sort.Slice(r.PerBranch, func(i, j int) bool {
		if r.PerBranch[i].Cost != r.PerBranch[j].Cost {
			return r.PerBranch[i].Cost > r.PerBranch[j].Cost
		}
		if r.PerBranch[i].TotalSeconds != r.PerBranch[j].TotalSeconds {
			return r.PerBranch[i].TotalSeconds > r.PerBranch[j].TotalSeconds
		}
		return r.PerBranch[i].Branch < r.PerBranch[j].Branch
	})
	if len(r.PerBranch) > topN {
		r.PerBranch = r.PerBranch[:topN]
	}

	sort.SliceStable(costed, func(i, j int) bool {
		return costed[i].Duration > costed[j].Duration
	})
	if len(costed) > topN {
		costed = costed[:topN]
	}
	r.MostExpensive = costed

	return r
}

// ProjectMonthly extrapolates the report's cost over periodDays to a
// 30-day month. Returns 0 for a non-positive period.
func ProjectMonthly(r Report, periodDays int) float64 {
	if periodDays <= 0 {
		return 0
	}
	return r.EstimatedCost / float64(periodDays) * 30
}

func price(seconds int64, perHour float64) float64 {
	return float64(seconds) / 3600 * perHour
}
