package models

import "time"

type Product struct {
	ID            ObjectID  `bson:"_id" json:"_id"`
	Name          string    `bson:"name" json:"name" validate:"required"`
	Description   string    `bson:"description" json:"description" validate:"required"`
	Category      string    `bson:"category" json:"category" validate:"required"`
	Tags          string    `bson:"tags,omitempty" json:"tags,omitempty"`
	OriginalPrice *float64  `bson:"originalPrice,omitempty" json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	DiscountPrice *float64  `bson:"discountPrice" json:"discountPrice" validate:"required,gte=0"`
	Stock         *int      `bson:"stock" json:"stock" validate:"required,gte=0"`
	Images        []Image   `bson:"images" json:"images" validate:"dive"`
	Ratings       float64   `bson:"ratings,omitempty" json:"ratings,omitempty"`
	SoldOut       int       `bson:"sold_out" json:"sold_out"`
	ShopID        string    `bson:"shopId" json:"shopId" validate:"required,objectid"`
	Shop          *Shop     `bson:"shop" json:"shop"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

func (Product) CollectionName() string {
	return "products"
}
