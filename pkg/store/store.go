// Package store persists resolved snapshots so the HTTP service can hand
// out stable ids.
//
// [Memory] keeps snapshots in process and suits tests and single-instance
// runs; [Mongo] stores them in a MongoDB collection keyed by id.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/boxlayout/pkg/graph"
)

// ErrNotFound is returned by Get and Delete for unknown ids.
var ErrNotFound = errors.New("snapshot not found")

// Store persists snapshots.
type Store interface {
	// Save assigns a new id and creation time to snap, stores it and
	// returns the stored copy.
	Save(ctx context.Context, snap graph.Snapshot) (graph.Snapshot, error)

	// Get returns the snapshot with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (graph.Snapshot, error)

	// Delete removes the snapshot with the given id or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// stamp gives snap a fresh id and creation time.
func stamp(snap graph.Snapshot) graph.Snapshot {
	snap.ID = uuid.NewString()
	snap.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	return snap
}
