package storage

import (
	"context"
	"encoding/json"
	"time"
)

// Snapshot is a persisted point-in-time state of a store, tagged with the
// schema version of the state payload so older shapes can be migrated on load.
type Snapshot struct {
	Key       string          `json:"key"`
	Version   int             `json:"version"`
	State     json.RawMessage `json:"state"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SnapshotStore persists store snapshots in a durable key-value store.
type SnapshotStore interface {
	// Save writes a snapshot, replacing any previous snapshot under the same key.
	Save(ctx context.Context, snap *Snapshot) error

	// Load returns the snapshot for a key, or nil when none exists.
	Load(ctx context.Context, key string) (*Snapshot, error)
}
