package events

import "time"

// Event types carried on the store-events topic.
const (
	SubscriptionActivated   = "subscription.activated"
	SubscriptionDeactivated = "subscription.deactivated"
	CartItemInserted        = "cart.item_inserted"
	CartItemUpdated         = "cart.item_updated"
	CartItemDeleted         = "cart.item_deleted"
	OrderPlaced             = "order.placed"
	OrderPaid               = "order.paid"
)

// Event is the envelope published by the storefront-facing API and consumed
// by the relay worker.
type Event struct {
	Type       string                 `json:"type"`
	StoreID    int64                  `json:"store_id"`
	Email      string                 `json:"email,omitempty"`
	CustomerID string                 `json:"customer_id,omitempty"`
	OrderID    string                 `json:"order_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}
