package cart

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benschg/klara-shop/internal/crosssell"
	"github.com/benschg/klara-shop/internal/events"
	"github.com/benschg/klara-shop/internal/storage"
)

const (
	// SnapshotKey is the persistence namespace for the cart.
	SnapshotKey = "cart"

	// SchemaVersion tags persisted cart snapshots. Version 0 snapshots
	// predate cart_item_id and are repaired on load.
	SchemaVersion = 1
)

// State is the derived cart state. Totals are recomputed on every mutation
// and are never independently settable.
type State struct {
	Items       []Item                 `json:"items"`
	TotalItems  int                    `json:"total_items"`
	TotalPrice  float64                `json:"total_price"`
	Suggestions []crosssell.Suggestion `json:"suggestions,omitempty"`
}

// SuggestionSource resolves cross-sell suggestions for the cart contents.
type SuggestionSource interface {
	SuggestionsForCart(ctx context.Context, itemNames []string) []crosssell.Suggestion
}

// Store is the cart state container. Mutations are atomic snapshot-replace
// operations; each one persists the new state synchronously and schedules a
// cross-sell refresh that never blocks the caller.
type Store struct {
	mu       sync.Mutex
	state    State
	migrator *storage.Migrator

	snapshots storage.SnapshotStore
	publisher events.Publisher
	source    SuggestionSource

	// refreshSeq orders suggestion refreshes so a stale result resolving
	// late cannot overwrite a newer one.
	refreshSeq uint64
}

func NewStore(snapshots storage.SnapshotStore, publisher events.Publisher, source SuggestionSource) *Store {
	migrator := storage.NewMigrator(SchemaVersion)
	migrator.Register(0, migrateV0BackfillItemIDs)

	return &Store{
		state:     State{Items: []Item{}},
		migrator:  migrator,
		snapshots: snapshots,
		publisher: publisher,
		source:    source,
	}
}

// Load restores the cart from its persisted snapshot, migrating legacy
// shapes. A missing snapshot leaves the cart empty.
func (s *Store) Load(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}

	snap, err := s.snapshots.Load(ctx, SnapshotKey)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	state, err := s.migrator.Apply(snap.Version, snap.State)
	if err != nil {
		return err
	}

	loaded, err := unmarshalState(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = loaded
	s.recomputeTotalsLocked()
	return nil
}

// AddItem adds an item to the cart with the given quantity (minimum 1).
// If a line with the same identity key exists, quantities merge; otherwise a
// new line with a fresh cart item ID is created. Returns the resulting line.
func (s *Store) AddItem(item Item, quantity int) Item {
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	key := item.LineKey()
	var line Item
	merged := false
	for i := range s.state.Items {
		if s.state.Items[i].LineKey() == key {
			s.state.Items[i].Quantity += quantity
			line = s.state.Items[i]
			merged = true
			break
		}
	}
	if !merged {
		item.CartItemID = uuid.New().String()
		item.Quantity = quantity
		s.state.Items = append(s.state.Items, item)
		line = item
	}

	s.recomputeTotalsLocked()
	s.persistLocked()
	s.scheduleRefreshLocked()
	s.mu.Unlock()

	s.publish(line.CartItemID, events.TypeCartItemAdded, ItemAdded{
		CartItemID: line.CartItemID,
		ArticleID:  line.ArticleID,
		Name:       line.Name,
		Quantity:   quantity,
		UnitPrice:  line.UnitPrice,
		AddedAt:    time.Now(),
	})

	return line
}

// RemoveItem deletes a line by cart item ID. Returns false when no line
// matches.
func (s *Store) RemoveItem(cartItemID string) bool {
	s.mu.Lock()
	var removed *Item
	items := s.state.Items[:0]
	for _, item := range s.state.Items {
		if item.CartItemID == cartItemID {
			it := item
			removed = &it
			continue
		}
		items = append(items, item)
	}
	if removed == nil {
		s.mu.Unlock()
		return false
	}
	s.state.Items = items

	s.recomputeTotalsLocked()
	s.persistLocked()
	s.scheduleRefreshLocked()
	s.mu.Unlock()

	s.publish(removed.CartItemID, events.TypeCartItemRemoved, ItemRemoved{
		CartItemID: removed.CartItemID,
		ArticleID:  removed.ArticleID,
		RemovedAt:  time.Now(),
	})

	return true
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line, identically to RemoveItem.
func (s *Store) UpdateQuantity(cartItemID string, quantity int) bool {
	if quantity <= 0 {
		return s.RemoveItem(cartItemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Items {
		if s.state.Items[i].CartItemID == cartItemID {
			s.state.Items[i].Quantity = quantity
			s.recomputeTotalsLocked()
			s.persistLocked()
			s.scheduleRefreshLocked()
			return true
		}
	}
	return false
}

// UpdateCustomText changes a line's custom text in place. Identity and
// totals are untouched: custom text only affects line identity at add time.
func (s *Store) UpdateCustomText(cartItemID, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Items {
		if s.state.Items[i].CartItemID == cartItemID {
			s.state.Items[i].CustomText = text
			s.persistLocked()
			return true
		}
	}
	return false
}

// Clear resets the cart to its empty state, including suggestions.
func (s *Store) Clear() {
	s.mu.Lock()
	s.state = State{Items: []Item{}}
	s.refreshSeq++ // invalidate in-flight suggestion refreshes
	s.persistLocked()
	s.mu.Unlock()

	s.publish(SnapshotKey, events.TypeCartCleared, Cleared{ClearedAt: time.Now()})
}

// State returns a copy of the current cart state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyStateLocked()
}

// Items returns a copy of the current cart lines.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.state.Items))
	copy(items, s.state.Items)
	return items
}

// Suggestions returns the current cross-sell suggestions.
func (s *Store) Suggestions() []crosssell.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	suggestions := make([]crosssell.Suggestion, len(s.state.Suggestions))
	copy(suggestions, s.state.Suggestions)
	return suggestions
}

func (s *Store) copyStateLocked() State {
	state := s.state
	state.Items = make([]Item, len(s.state.Items))
	copy(state.Items, s.state.Items)
	state.Suggestions = make([]crosssell.Suggestion, len(s.state.Suggestions))
	copy(state.Suggestions, s.state.Suggestions)
	return state
}

func (s *Store) recomputeTotalsLocked() {
	totalItems := 0
	totalPrice := 0.0
	for _, item := range s.state.Items {
		totalItems += item.Quantity
		totalPrice += item.UnitPrice * float64(item.Quantity)
	}
	s.state.TotalItems = totalItems
	s.state.TotalPrice = totalPrice
}

// scheduleRefreshLocked dispatches an asynchronous cross-sell lookup for the
// current cart contents. The sequence number lets applySuggestions discard
// results that a newer mutation has since superseded.
func (s *Store) scheduleRefreshLocked() {
	if s.source == nil {
		return
	}
	s.refreshSeq++
	seq := s.refreshSeq

	names := make([]string, len(s.state.Items))
	for i, item := range s.state.Items {
		names[i] = item.Name
	}

	go func() {
		suggestions := s.source.SuggestionsForCart(context.Background(), names)
		s.applySuggestions(seq, suggestions)
	}()
}

func (s *Store) applySuggestions(seq uint64, suggestions []crosssell.Suggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.refreshSeq {
		// A newer refresh is in flight or already applied.
		return
	}
	s.state.Suggestions = suggestions
	s.persistLocked()
}

func (s *Store) publish(key, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.Publish(ctx, key, eventType, data); err != nil {
			log.Printf("[Cart] Failed to publish %s event: %v", eventType, err)
		}
	}()
}
