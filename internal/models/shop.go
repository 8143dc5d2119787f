package models

import "time"

// Shop is owned by the shop management service; products only read it.
type Shop struct {
	ID          ObjectID  `bson:"_id" json:"_id"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email" json:"email"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
	PhoneNumber int64     `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	ZipCode     int64     `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
	Avatar      *Image    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt   time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

func (Shop) CollectionName() string {
	return "shops"
}
