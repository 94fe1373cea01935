// Package store holds the latest display snapshot per location. Snapshots
// are replaced wholesale on every refresh cycle; there is no history and no
// partial update.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/uvwatch/uv-forecast-service/internal/domain"
)

// Memory is the in-process snapshot store. It implements pipeline.Store and
// serves reads for the HTTP API.
type Memory struct {
	mu    sync.RWMutex
	snaps map[string]domain.Snapshot
}

// NewMemory creates an empty snapshot store.
func NewMemory() *Memory {
	return &Memory{snaps: make(map[string]domain.Snapshot)}
}

// Put replaces the snapshot for the location.
func (m *Memory) Put(_ context.Context, snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.Location] = snap
	return nil
}

// Get returns the latest snapshot for the location, if any refresh has
// completed for it.
func (m *Memory) Get(_ context.Context, location string) (domain.Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[location]
	return snap, ok
}

// Locations lists the locations with a stored snapshot, sorted by name.
func (m *Memory) Locations(_ context.Context) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.snaps))
	for name := range m.snaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
