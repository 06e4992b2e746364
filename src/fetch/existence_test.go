package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"moirai-dashboard/src/provider"
)

// repoFetcher answers existence checks by repo name and tracks how many
// run at once.
type repoFetcher struct {
	empty    map[string]bool
	failing  map[string]bool
	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	seen     []string
}

func (f *repoFetcher) FetchPage(ctx context.Context, serverID, path string) (json.RawMessage, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	name := strings.Split(path, "/")[2]
	f.mu.Lock()
	f.seen = append(f.seen, name)
	f.mu.Unlock()

	if f.failing[name] {
		return nil, errors.New("timeout")
	}
	if f.empty[name] {
		return json.RawMessage(`[]`), nil
	}
	return json.RawMessage(`[{"number": 1}]`), nil
}

func repos(n int) []provider.Repo {
	out := make([]provider.Repo, n)
	for i := range out {
		out[i] = provider.Repo{Owner: "acme", Name: "r" + string(rune('a'+i))}
	}
	return out
}

func TestFilterReposWithBuilds(t *testing.T) {
	all := repos(25)
	f := &repoFetcher{
		empty:   map[string]bool{"rb": true, "rm": true},
		failing: map[string]bool{"rc": true},
	}

	got := FilterReposWithBuilds(context.Background(), f, "server-0", provider.KindDrone, all, nil)

	if len(got) != 23 {
		t.Fatalf("kept %d repos, want 23", len(got))
	}
	for _, r := range got {
		if r.Name == "rb" || r.Name == "rm" {
			t.Errorf("empty repo %s was kept", r.Name)
		}
	}
	if got[1].Name != "rc" {
		t.Errorf("failed check should keep rc in place, got %s", got[1].Name)
	}
	if len(f.seen) != 25 {
		t.Errorf("checked %d repos, want 25", len(f.seen))
	}
	if peak := f.peak.Load(); peak > BatchSize {
		t.Errorf("peak concurrency %d exceeds batch size %d", peak, BatchSize)
	}
}

func TestHasBuilds(t *testing.T) {
	f := &repoFetcher{empty: map[string]bool{"ra": true}}

	ok, err := HasBuilds(context.Background(), f, "server-0", provider.KindWoodpecker, provider.Repo{Owner: "acme", Name: "ra"})
	if err != nil || ok {
		t.Errorf("HasBuilds(empty) = %v, %v; want false, nil", ok, err)
	}
	ok, err = HasBuilds(context.Background(), f, "server-0", provider.KindWoodpecker, provider.Repo{Owner: "acme", Name: "rb"})
	if err != nil || !ok {
		t.Errorf("HasBuilds(non-empty) = %v, %v; want true, nil", ok, err)
	}
}
