package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory snapshot store, used in development and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]Snapshot)}
}

func (ms *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.snapshots[snap.Key] = *snap
	return nil
}

func (ms *MemoryStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	snap, ok := ms.snapshots[key]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}
