package events

import (
	"context"
	"encoding/json"
	"time"
)

// Storefront event types
const (
	TypeCartItemAdded   = "CartItemAdded"
	TypeCartItemRemoved = "CartItemRemoved"
	TypeCartCleared     = "CartCleared"
	TypeOrderPlaced     = "OrderPlaced"
)

// Event is the envelope published for storefront lifecycle events.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher publishes storefront events. Publishing is best-effort: callers
// fire and forget, delivery failures are logged and never fail the mutation
// that triggered them.
type Publisher interface {
	Publish(ctx context.Context, key, eventType string, data any) error
	Close() error
}

// NopPublisher discards all events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, key, eventType string, data any) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
