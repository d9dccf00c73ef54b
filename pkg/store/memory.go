package store

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/boxlayout/pkg/graph"
)

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	snaps map[string]graph.Snapshot
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{snaps: make(map[string]graph.Snapshot)}
}

// Save implements Store.
func (m *Memory) Save(_ context.Context, snap graph.Snapshot) (graph.Snapshot, error) {
	snap = stamp(snap)
	snap.Nodes = clone(snap.Nodes)

	m.mu.Lock()
	m.snaps[snap.ID] = snap
	m.mu.Unlock()
	return snap, nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, id string) (graph.Snapshot, error) {
	m.mu.RLock()
	snap, ok := m.snaps[id]
	m.mu.RUnlock()
	if !ok {
		return graph.Snapshot{}, ErrNotFound
	}
	snap.Nodes = clone(snap.Nodes)
	return snap, nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snaps[id]; !ok {
		return ErrNotFound
	}
	delete(m.snaps, id)
	return nil
}

// Len returns the number of stored snapshots.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snaps)
}

// Close implements Store.
func (m *Memory) Close(context.Context) error { return nil }

// clone copies nodes and their behavior lists so callers cannot alias
// stored state.
func clone(nodes []graph.Node) []graph.Node {
	out := slices.Clone(nodes)
	for i := range out {
		out[i].Behaviors = slices.Clone(out[i].Behaviors)
	}
	return out
}

var _ Store = (*Memory)(nil)
