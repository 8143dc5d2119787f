package models

import "time"

const (
	ProductCreated = "product.created"
	ProductDeleted = "product.deleted"
)

// ProductEvent is published to the event bus after a product write succeeds.
type ProductEvent struct {
	Pattern    string    `json:"pattern"`
	ProductID  ObjectID  `json:"product_id"`
	ShopID     string    `json:"shop_id"`
	Product    *Product  `json:"product,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
