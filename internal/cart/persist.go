package cart

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/benschg/klara-shop/internal/storage"
)

// persistLocked writes a synchronous snapshot of the in-memory state after a
// mutation. Persistence failures degrade to a log line, never to a failed
// mutation.
func (s *Store) persistLocked() {
	if s.snapshots == nil {
		return
	}

	state, err := json.Marshal(s.state)
	if err != nil {
		log.Printf("[Cart] Failed to marshal cart state: %v", err)
		return
	}

	snap := &storage.Snapshot{
		Key:       SnapshotKey,
		Version:   SchemaVersion,
		State:     state,
		UpdatedAt: time.Now(),
	}
	if err := s.snapshots.Save(context.Background(), snap); err != nil {
		log.Printf("[Cart] Failed to persist cart snapshot: %v", err)
	}
}

func unmarshalState(data json.RawMessage) (State, error) {
	state := State{Items: []Item{}}
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, err
	}
	if state.Items == nil {
		state.Items = []Item{}
	}
	return state, nil
}

// migrateV0BackfillItemIDs upgrades version 0 snapshots, whose items carry no
// cart_item_id, by generating an identifier for each legacy item.
func migrateV0BackfillItemIDs(state json.RawMessage) (json.RawMessage, error) {
	var legacy struct {
		Items       []map[string]any `json:"items"`
		TotalItems  int              `json:"total_items"`
		TotalPrice  float64          `json:"total_price"`
		Suggestions json.RawMessage  `json:"suggestions,omitempty"`
	}
	if err := json.Unmarshal(state, &legacy); err != nil {
		return nil, err
	}

	for _, item := range legacy.Items {
		if id, ok := item["cart_item_id"].(string); !ok || id == "" {
			item["cart_item_id"] = uuid.New().String()
		}
	}

	return json.Marshal(legacy)
}
