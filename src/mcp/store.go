package mcp

import (
	"sync"

	"moirai-dashboard/src/dashboard"
)

// DefaultStoreCapacity bounds how many snapshots are kept for drill-down.
const DefaultStoreCapacity = 32

// SnapshotStore keeps snapshots between tool calls so follow-up calls can
// drill into them without refetching.
type SnapshotStore interface {
	// Store saves a snapshot under an ID.
	Store(id string, snap *dashboard.Snapshot)
	// Get returns a stored snapshot.
	Get(id string) (*dashboard.Snapshot, bool)
}

// InMemoryStore is a bounded, thread-safe SnapshotStore. When full, the
// oldest snapshot is evicted.
type InMemoryStore struct {
	mu        sync.Mutex
	capacity  int
	order     []string
	snapshots map[string]*dashboard.Snapshot
}

// NewInMemoryStore creates a store holding at most capacity snapshots.
func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = DefaultStoreCapacity
	}
	return &InMemoryStore{
		capacity:  capacity,
		snapshots: make(map[string]*dashboard.Snapshot, capacity),
	}
}

// Store saves a snapshot, evicting the oldest when over capacity.
func (s *InMemoryStore) Store(id string, snap *dashboard.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.snapshots[id]; !exists {
		s.order = append(s.order, id)
	}
	s.snapshots[id] = snap

	for len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.snapshots, oldest)
	}
}

// Get retrieves a snapshot by ID.
func (s *InMemoryStore) Get(id string) (*dashboard.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.snapshots[id]
	return snap, ok
}

// Len returns the number of stored snapshots.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}
