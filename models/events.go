package models

import "time"

// OrderPlacedItem is one line of an OrderPlacedEvent.
type OrderPlacedItem struct {
	ProductID uint  `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Price     int64 `json:"price"`
}

// OrderPlacedEvent is published after an order commits. Consumers get
// the price snapshots, not live catalog prices.
type OrderPlacedEvent struct {
	OrderID     uint              `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	BuyerID     uint              `json:"buyer_id"`
	Total       int64             `json:"total"`
	Items       []OrderPlacedItem `json:"items"`
	Timestamp   time.Time         `json:"timestamp"`
}
