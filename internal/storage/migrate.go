package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNoMigrationPath = errors.New("no migration path to current schema version")

// MigrateFunc transforms a state payload from one schema version to the next.
type MigrateFunc func(state json.RawMessage) (json.RawMessage, error)

// Migrator upgrades persisted state payloads to the current schema version by
// applying an ordered chain of pure migration functions, one per version step.
type Migrator struct {
	current int
	steps   map[int]MigrateFunc // from-version -> migration to from+1
}

func NewMigrator(current int) *Migrator {
	return &Migrator{
		current: current,
		steps:   make(map[int]MigrateFunc),
	}
}

// Current returns the schema version the migrator upgrades to.
func (m *Migrator) Current() int {
	return m.current
}

// Register adds the migration applied to payloads stored at version from.
func (m *Migrator) Register(from int, fn MigrateFunc) {
	m.steps[from] = fn
}

// Apply upgrades state from the stored version to the current version,
// applying each registered step in sequence.
func (m *Migrator) Apply(version int, state json.RawMessage) (json.RawMessage, error) {
	if version > m.current {
		return nil, fmt.Errorf("stored version %d is newer than current %d", version, m.current)
	}
	for v := version; v < m.current; v++ {
		fn, ok := m.steps[v]
		if !ok {
			return nil, fmt.Errorf("%w: missing step %d -> %d", ErrNoMigrationPath, v, v+1)
		}
		migrated, err := fn(state)
		if err != nil {
			return nil, fmt.Errorf("migration %d -> %d: %w", v, v+1, err)
		}
		state = migrated
	}
	return state, nil
}
