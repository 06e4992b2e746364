package mcp

import (
	"fmt"
	"testing"

	"moirai-dashboard/src/dashboard"
)

func TestInMemoryStore(t *testing.T) {
	store := NewInMemoryStore(4)

	snap := &dashboard.Snapshot{ServerID: "server-0", PeriodDays: 30}
	store.Store("snap-1", snap)

	got, found := store.Get("snap-1")
	if !found {
		t.Fatal("Get() expected to find snap-1")
	}
	if got != snap {
		t.Errorf("Get() returned a different snapshot")
	}

	if _, found := store.Get("snap-9"); found {
		t.Error("Get() expected not to find snap-9")
	}
}

func TestInMemoryStore_EvictsOldest(t *testing.T) {
	store := NewInMemoryStore(2)
	for i := 1; i <= 3; i++ {
		store.Store(fmt.Sprintf("snap-%d", i), &dashboard.Snapshot{})
	}

	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
	if _, found := store.Get("snap-1"); found {
		t.Error("snap-1 should have been evicted")
	}
	for _, id := range []string{"snap-2", "snap-3"} {
		if _, found := store.Get(id); !found {
			t.Errorf("%s should still be stored", id)
		}
	}
}

func TestInMemoryStore_ReplaceDoesNotGrow(t *testing.T) {
	store := NewInMemoryStore(2)
	store.Store("a", &dashboard.Snapshot{})
	store.Store("a", &dashboard.Snapshot{PeriodDays: 7})
	store.Store("b", &dashboard.Snapshot{})

	got, found := store.Get("a")
	if !found || got.PeriodDays != 7 {
		t.Errorf("Get(a) = %+v, %v; want replaced snapshot", got, found)
	}
}
