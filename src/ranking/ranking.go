// Package ranking folds builds into a per-author contributor leaderboard.
// The dashboard, MCP server and TUI all rank contributors through this
// package so they agree on order and medals.
package ranking

import (
	"sort"

	"moirai-dashboard/src/build"
	"moirai-dashboard/src/stats"
)

// TopN is the size of the leaderboard chart.
const TopN = 10

var medals = [...]string{"🥇", "🥈", "🥉"}

// Contributor is one author's record after all builds are folded in.
type Contributor struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
	Email       string `json:"email,omitempty"`

	TotalBuilds   int `json:"total_builds"`
	SuccessBuilds int `json:"success_builds"`
	FailedBuilds  int `json:"failed_builds"`
	OtherBuilds   int `json:"other_builds"`

	Commits  int      `json:"commits"`
	Branches []string `json:"branches"`
	PRCount  int      `json:"pr_count"`

	Streak        int `json:"streak"`
	CurrentStreak int `json:"current_streak"`

	LatestBuild build.Build `json:"latest_build"`

	SuccessRate int    `json:"success_rate"`
	Rank        int    `json:"rank"`
	Medal       string `json:"medal,omitempty"`
}

// Leaderboard is the ranked output. MaxBuilds scales the chart.
type Leaderboard struct {
	Contributors    []Contributor `json:"contributors"`
	TopContributors []Contributor `json:"top_contributors"`
	MaxBuilds       int           `json:"max_builds"`
}

// tally accumulates one author during the fold.
type tally struct {
	c        Contributor
	commits  map[string]struct{}
	branches map[string]struct{}
	seen     bool
}

// Aggregate folds builds in input order. Streaks are only meaningful when
// builds arrive oldest first. Ties on total builds rank by login.
func Aggregate(builds []build.Build) Leaderboard {
	tallies := make(map[string]*tally)

	for _, b := range builds {
		key := b.Author
		if key == "" {
			key = build.UnknownAuthor
		}
		t, ok := tallies[key]
		if !ok {
			t = &tally{
				c:        Contributor{Login: key, DisplayName: key},
				commits:  make(map[string]struct{}),
				branches: make(map[string]struct{}),
			}
			tallies[key] = t
		}
		t.add(b)
	}

	out := make([]Contributor, 0, len(tallies))
	for _, t := range tallies {
		out = append(out, t.finish())
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalBuilds != out[j].TotalBuilds {
			return out[i].TotalBuilds > out[j].TotalBuilds
		}
		return out[i].Login < out[j].Login
	})
	for i := range out {
		out[i].Rank = i + 1
		if i < len(medals) {
			out[i].Medal = medals[i]
		}
	}

	top := out
	if len(top) > TopN {
		top = top[:TopN]
	}
	lb := Leaderboard{Contributors: out, TopContributors: top}
	if len(top) > 0 {
		lb.MaxBuilds = top[0].TotalBuilds
	}
	return lb
}

func (t *tally) add(b build.Build) {
	c := &t.c
	c.TotalBuilds++

	switch b.Status {
	case build.StatusSuccess:
		c.SuccessBuilds++
		c.CurrentStreak++
		if c.CurrentStreak > c.Streak {
			c.Streak = c.CurrentStreak
		}
	case build.StatusFailure, build.StatusError:
		c.FailedBuilds++
		c.CurrentStreak = 0
	default:
		c.OtherBuilds++
	}

	if b.Commit != "" {
		t.commits[b.Commit] = struct{}{}
	}
	if b.Branch != "" {
		t.branches[b.Branch] = struct{}{}
	}
	if b.IsPR {
		c.PRCount++
	}

	if b.AuthorDisplayName != "" && b.AuthorDisplayName != build.UnknownAuthor {
		c.DisplayName = b.AuthorDisplayName
	}
	if b.AuthorAvatar != "" {
		c.Avatar = b.AuthorAvatar
	}
	if b.AuthorEmail != "" {
		c.Email = b.AuthorEmail
	}
	if !t.seen || b.Number > c.LatestBuild.Number {
		c.LatestBuild = b
		t.seen = true
	}
}

func (t *tally) finish() Contributor {
	c := t.c
	c.Commits = len(t.commits)
	c.Branches = make([]string, 0, len(t.branches))
	for br := range t.branches {
		c.Branches = append(c.Branches, br)
	}
	sort.Strings(c.Branches)
	c.SuccessRate = stats.Rate(c.SuccessBuilds, c.TotalBuilds)
	return c
}
