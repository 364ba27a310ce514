package cart

import "time"

// ItemAdded is published when a line is added to or merged into the cart.
type ItemAdded struct {
	CartItemID string    `json:"cart_item_id"`
	ArticleID  string    `json:"article_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	AddedAt    time.Time `json:"added_at"`
}

// ItemRemoved is published when a line leaves the cart.
type ItemRemoved struct {
	CartItemID string    `json:"cart_item_id"`
	ArticleID  string    `json:"article_id"`
	RemovedAt  time.Time `json:"removed_at"`
}

// Cleared is published when the cart is emptied.
type Cleared struct {
	ClearedAt time.Time `json:"cleared_at"`
}
