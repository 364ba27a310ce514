// Package order turns a completed checkout into a placed order.
package order

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benschg/klara-shop/internal/cart"
	"github.com/benschg/klara-shop/internal/checkout"
	"github.com/benschg/klara-shop/internal/events"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutIncomplete = errors.New("checkout is not ready for payment")
)

// Order is an immutable record of a placed order.
type Order struct {
	ID              string                `json:"id"`
	Items           []cart.Item           `json:"items"`
	TotalItems      int                   `json:"total_items"`
	TotalPrice      float64               `json:"total_price"`
	CustomerInfo    checkout.CustomerInfo `json:"customer_info"`
	ShippingAddress checkout.Address      `json:"shipping_address"`
	BillingAddress  checkout.Address      `json:"billing_address"`
	DeliveryNotes   string                `json:"delivery_notes,omitempty"`
	PlacedAt        time.Time             `json:"placed_at"`
}

// Service validates and places orders, clearing the cart and resetting the
// checkout once an order is accepted.
type Service struct {
	mu        sync.Mutex
	cart      *cart.Store
	checkout  *checkout.Store
	publisher events.Publisher
	placed    []Order
}

func NewService(cartStore *cart.Store, checkoutStore *checkout.Store, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		cart:      cartStore,
		checkout:  checkoutStore,
		publisher: publisher,
	}
}

// Place creates an order from the current cart and checkout state. The cart
// must not be empty and the checkout must have reached the payment step.
func (s *Service) Place(ctx context.Context) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cartState := s.cart.State()
	if len(cartState.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if !s.checkout.ReadyForPayment() {
		return nil, ErrCheckoutIncomplete
	}

	checkoutState := s.checkout.State()
	order := Order{
		ID:              uuid.New().String(),
		Items:           cartState.Items,
		TotalItems:      cartState.TotalItems,
		TotalPrice:      cartState.TotalPrice,
		CustomerInfo:    checkoutState.CustomerInfo,
		ShippingAddress: checkoutState.ShippingAddress,
		BillingAddress:  checkoutState.BillingAddress,
		DeliveryNotes:   checkoutState.DeliveryNotes,
		PlacedAt:        time.Now().UTC(),
	}
	s.placed = append(s.placed, order)

	if err := s.publisher.Publish(ctx, order.ID, events.TypeOrderPlaced, order); err != nil {
		log.Printf("[Order] failed to publish order placed event: %v", err)
	}

	s.cart.Clear()
	s.checkout.Reset()

	log.Printf("[Order] placed order %s with %d items, total %.2f", order.ID, order.TotalItems, order.TotalPrice)
	return &order, nil
}

// Orders returns all orders placed in this process, newest last.
func (s *Service) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.placed))
	copy(out, s.placed)
	return out
}
