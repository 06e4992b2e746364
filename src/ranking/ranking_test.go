package ranking

import (
	"fmt"
	"testing"

	"moirai-dashboard/src/build"
)

func by(author, status string, number int64) build.Build {
	return build.Build{Number: number, Author: author, AuthorLogin: author, AuthorDisplayName: author, Status: status}
}

func TestAggregate_Streak(t *testing.T) {
	builds := []build.Build{
		by("alice", "success", 1),
		by("alice", "success", 2),
		by("alice", "failure", 3),
		by("alice", "success", 4),
	}

	lb := Aggregate(builds)
	if len(lb.Contributors) != 1 {
		t.Fatalf("got %d contributors, want 1", len(lb.Contributors))
	}

	c := lb.Contributors[0]
	if c.Streak != 2 {
		t.Errorf("Streak = %d, want 2", c.Streak)
	}
	if c.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", c.CurrentStreak)
	}
	if c.SuccessBuilds != 3 || c.FailedBuilds != 1 {
		t.Errorf("success/failed = %d/%d, want 3/1", c.SuccessBuilds, c.FailedBuilds)
	}
	if c.SuccessRate != 75 {
		t.Errorf("SuccessRate = %d, want 75", c.SuccessRate)
	}
	if c.LatestBuild.Number != 4 {
		t.Errorf("LatestBuild = #%d, want #4", c.LatestBuild.Number)
	}
}

func TestAggregate_StatusBuckets(t *testing.T) {
	tests := []struct {
		name        string
		statuses    []string
		wantFailed  int
		wantOther   int
		wantCurrent int
	}{
		{"error resets streak", []string{"success", "error"}, 1, 0, 0},
		{"killed keeps streak", []string{"success", "killed"}, 0, 1, 1},
		{"running keeps streak", []string{"success", "running", "success"}, 0, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var builds []build.Build
			for i, s := range tt.statuses {
				builds = append(builds, by("bob", s, int64(i+1)))
			}
			c := Aggregate(builds).Contributors[0]
			if c.FailedBuilds != tt.wantFailed || c.OtherBuilds != tt.wantOther || c.CurrentStreak != tt.wantCurrent {
				t.Errorf("failed/other/current = %d/%d/%d, want %d/%d/%d",
					c.FailedBuilds, c.OtherBuilds, c.CurrentStreak, tt.wantFailed, tt.wantOther, tt.wantCurrent)
			}
		})
	}
}

func TestAggregate_DistinctSets(t *testing.T) {
	builds := []build.Build{
		{Number: 1, Author: "carol", Status: "success", Commit: "a1", Branch: "main"},
		{Number: 2, Author: "carol", Status: "success", Commit: "a1", Branch: "main"},
		{Number: 3, Author: "carol", Status: "success", Commit: "b2", Branch: "feature", IsPR: true},
	}

	c := Aggregate(builds).Contributors[0]
	if c.Commits != 2 {
		t.Errorf("Commits = %d, want 2", c.Commits)
	}
	if len(c.Branches) != 2 || c.Branches[0] != "feature" || c.Branches[1] != "main" {
		t.Errorf("Branches = %v, want [feature main]", c.Branches)
	}
	if c.PRCount != 1 {
		t.Errorf("PRCount = %d, want 1", c.PRCount)
	}
}

func TestAggregate_RanksAndMedals(t *testing.T) {
	counts := map[string]int{"dave": 5, "erin": 3, "frank": 3, "grace": 1}
	var builds []build.Build
	n := int64(0)
	for author, c := range counts {
		for i := 0; i < c; i++ {
			n++
			builds = append(builds, by(author, "success", n))
		}
	}

	lb := Aggregate(builds)

	want := []struct {
		login string
		medal string
	}{
		{"dave", "🥇"},
		{"erin", "🥈"},
		{"frank", "🥉"},
		{"grace", ""},
	}
	for i, w := range want {
		c := lb.Contributors[i]
		if c.Login != w.login || c.Rank != i+1 || c.Medal != w.medal {
			t.Errorf("Contributors[%d] = %s rank %d %q, want %s rank %d %q", i, c.Login, c.Rank, c.Medal, w.login, i+1, w.medal)
		}
	}
	if lb.MaxBuilds != 5 {
		t.Errorf("MaxBuilds = %d, want 5", lb.MaxBuilds)
	}
}

func TestAggregate_TopContributors(t *testing.T) {
	var builds []build.Build
	for i := 0; i < 14; i++ {
		builds = append(builds, by(fmt.Sprintf("user%02d", i), "success", int64(i+1)))
	}

	lb := Aggregate(builds)
	if len(lb.Contributors) != 14 || len(lb.TopContributors) != TopN {
		t.Errorf("got %d contributors and %d top, want 14 and %d", len(lb.Contributors), len(lb.TopContributors), TopN)
	}
}

func TestAggregate_Empty(t *testing.T) {
	lb := Aggregate(nil)
	if len(lb.Contributors) != 0 || len(lb.TopContributors) != 0 || lb.MaxBuilds != 0 {
		t.Errorf("Aggregate(nil) = %+v, want empty", lb)
	}
}

func TestAggregate_DisplayName(t *testing.T) {
	builds := []build.Build{
		{Number: 1, Author: "jdoe", AuthorDisplayName: "Jane Doe", AuthorAvatar: "https://a/1.png", Status: "success"},
		{Number: 2, Author: "jdoe", AuthorDisplayName: build.UnknownAuthor, Status: "success"},
	}
	c := Aggregate(builds).Contributors[0]
	if c.DisplayName != "Jane Doe" || c.Avatar != "https://a/1.png" {
		t.Errorf("identity = %q %q, want Jane Doe with avatar", c.DisplayName, c.Avatar)
	}
}
