// Package grouping collapses a build stream into the latest build per
// branch, pull request or cron job, and filters and sorts the result.
package grouping

import (
	"sort"
	"strings"

	"moirai-dashboard/src/build"
)

// DefaultCron keys cron builds that carry no job name.
const DefaultCron = "default"

// Stats key prefixes.
const (
	keyBranch = "branch:"
	keyPR     = "pr:"
	keyCron   = "cron:"
)

// Entry is the latest build for one branch, PR or cron job.
type Entry struct {
	build.Build
	DisplayName string `json:"display_name"`
	StatsKey    string `json:"stats_key"`
}

// Name returns the display name, falling back to the branch.
func (e Entry) Name() string {
	if e.DisplayName != "" {
		return e.DisplayName
	}
	return e.Branch
}

// GroupByBranch keeps the highest-numbered build per branch and per PR.
// Cron builds and non-PR builds without a branch are skipped. A nil existingBranches or openPRs disables the
// corresponding filter; an empty non-nil set filters everything out.
func GroupByBranch(builds []build.Build, existingBranches, openPRs map[string]struct{}) []Entry {
	branches := make(map[string]Entry)
	prs := make(map[string]Entry)
	var branchOrder, prOrder []string

	for _, b := range builds {
		if b.Event == build.EventCron {
			continue
		}

		if b.IsPR {
			if openPRs != nil {
				if _, open := openPRs[b.PRNumber]; !open {
					continue
				}
			}
			key := "PR #" + b.PRNumber
			cur, seen := prs[key]
			if seen && cur.Number >= b.Number {
				continue
			}
			if !seen {
				prOrder = append(prOrder, key)
			}
			display := key
			if b.PRTitle != "" {
				display = "#" + b.PRNumber + ": " + b.PRTitle
			}
			prs[key] = Entry{Build: b, DisplayName: display, StatsKey: keyPR + b.PRNumber}
			continue
		}

		if b.Branch == "" {
			continue
		}
		if existingBranches != nil {
			if _, exists := existingBranches[b.Branch]; !exists {
				continue
			}
		}
		cur, seen := branches[b.Branch]
		if seen && cur.Number >= b.Number {
			continue
		}
		if !seen {
			branchOrder = append(branchOrder, b.Branch)
		}
		branches[b.Branch] = Entry{Build: b, DisplayName: b.Branch, StatsKey: keyBranch + b.Branch}
	}

	out := make([]Entry, 0, len(branches)+len(prs))
	for _, k := range branchOrder {
		out = append(out, branches[k])
	}
	for _, k := range prOrder {
		out = append(out, prs[k])
	}
	return out
}

// GroupByCron keeps the highest-numbered build per cron job, newest first.
func GroupByCron(builds []build.Build) []Entry {
	jobs := make(map[string]Entry)
	for _, b := range builds {
		if b.Event != build.EventCron {
			continue
		}
		name := cronName(b)
		if cur, seen := jobs[name]; seen && cur.Number >= b.Number {
			continue
		}
		jobs[name] = Entry{Build: b, DisplayName: name, StatsKey: keyCron + name}
	}

	out := make([]Entry, 0, len(jobs))
	for _, e := range jobs {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt() != out[j].CreatedAt() {
			return out[i].CreatedAt() > out[j].CreatedAt()
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	return out
}

// Select returns the builds a stats key refers to, in input order.
// Unknown keys select nothing.
func Select(builds []build.Build, statsKey string) []build.Build {
	var match func(build.Build) bool
	switch {
	case strings.HasPrefix(statsKey, keyBranch):
		name := strings.TrimPrefix(statsKey, keyBranch)
		if name == "" {
			return nil
		}
		match = func(b build.Build) bool {
			return !b.IsPR && b.Event != build.EventCron && b.Branch == name
		}
	case strings.HasPrefix(statsKey, keyPR):
		n := strings.TrimPrefix(statsKey, keyPR)
		match = func(b build.Build) bool {
			return b.IsPR && b.PRNumber == n
		}
	case strings.HasPrefix(statsKey, keyCron):
		name := strings.TrimPrefix(statsKey, keyCron)
		match = func(b build.Build) bool {
			return b.Event == build.EventCron && cronName(b) == name
		}
	default:
		return nil
	}

	var out []build.Build
	for _, b := range builds {
		if match(b) {
			out = append(out, b)
		}
	}
	return out
}

func cronName(b build.Build) string {
	if b.Cron == "" {
		return DefaultCron
	}
	return b.Cron
}
