// Demo program to showcase the Moirai TUI with a generated build history.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"moirai-dashboard/src/build"
	"moirai-dashboard/src/config"
	"moirai-dashboard/src/dashboard"
	"moirai-dashboard/src/provider"
	"moirai-dashboard/src/tui"
)

func main() {
	fmt.Println("Generating sample build history...")
	now := time.Now()
	builds := generateBuilds(now, 30)

	fmt.Printf("Generated %d builds across %d branches.\n", len(builds), len(demoBranches))
	fmt.Println("Launching TUI...")
	time.Sleep(500 * time.Millisecond) // Brief pause for effect

	svc := dashboard.NewService(nil, config.DefaultSettings(), nil)
	load := func(ctx context.Context) (*dashboard.Snapshot, error) {
		time.Sleep(300 * time.Millisecond)
		return &dashboard.Snapshot{
			ServerID:   "demo",
			Repo:       provider.Repo{Owner: "acme", Name: "platform"},
			Kind:       provider.KindWoodpecker,
			PeriodDays: 30,
			FetchedAt:  now,
			Builds:     builds,
		}, nil
	}

	if err := tui.Run(tui.NewMainModel(svc, "acme/platform (demo)", load)); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

type demoBranch struct {
	name        string
	failureRate float64
	baseSeconds int64
}

var demoBranches = []demoBranch{
	{name: "main", failureRate: 0.05, baseSeconds: 420},
	{name: "develop", failureRate: 0.15, baseSeconds: 390},
	{name: "feature/payments-v2", failureRate: 0.45, baseSeconds: 610},
	{name: "fix/login-redirect", failureRate: 0.25, baseSeconds: 300},
	{name: "release/2.4", failureRate: 0.02, baseSeconds: 900},
}

var demoAuthors = []string{"alice", "bob", "carol", "dmitri", "eve"}

var demoMessages = []string{
	"Bump dependencies",
	"Fix flaky checkout test",
	"Add retry to payment webhook handler",
	"Refactor session middleware",
	"Update CI cache key",
	"Improve error message for expired tokens",
}

// generateBuilds returns builds newest first, like a CI server would.
func generateBuilds(now time.Time, days int) []build.Build {
	rng := rand.New(rand.NewSource(42))
	var out []build.Build

	start := now.Add(-time.Duration(days) * 24 * time.Hour)
	for t := start; t.Before(now); t = t.Add(time.Duration(40+rng.Intn(200)) * time.Minute) {
		br := demoBranches[rng.Intn(len(demoBranches))]
		b := newBuild(rng, t, br)
		b.Author = demoAuthors[rng.Intn(len(demoAuthors))]
		b.AuthorLogin = b.Author
		if rng.Float64() < 0.2 {
			b.Event = build.EventPullRequest
			b.IsPR = true
			b.PRNumber = strconv.Itoa(100 + rng.Intn(8))
			b.PRTitle = demoMessages[rng.Intn(len(demoMessages))]
		}
		out = append(out, b)
	}

	// Nightly cron jobs.
	for d := days; d > 0; d-- {
		night := time.Date(now.Year(), now.Month(), now.Day(), 2, 0, 0, 0, now.Location()).AddDate(0, 0, -d)
		for _, job := range []string{"nightly-e2e", "dependency-audit"} {
			b := newBuild(rng, night, demoBranch{name: "main", failureRate: 0.2, baseSeconds: 1500})
			b.Event = build.EventCron
			b.Cron = job
			b.Author = "cron"
			out = append(out, b)
		}
	}

	// Number in creation order, then hand back newest first.
	sort.Slice(out, func(i, j int) bool { return *out[i].Created > *out[j].Created })
	for i := range out {
		out[i].Number = int64(len(out) - i)
	}
	return out
}

func newBuild(rng *rand.Rand, at time.Time, br demoBranch) build.Build {
	created := at.Unix()
	started := created + int64(rng.Intn(30))
	finished := started + br.baseSeconds + int64(rng.Intn(int(br.baseSeconds)))

	status := build.StatusSuccess
	if rng.Float64() < br.failureRate {
		status = build.StatusFailure
	}

	return build.Build{
		Branch:   br.name,
		Status:   status,
		Event:    build.EventPush,
		Commit:   fmt.Sprintf("%040x", rng.Int63()),
		Message:  demoMessages[rng.Intn(len(demoMessages))],
		Created:  &created,
		Started:  &started,
		Finished: &finished,
	}
}
