package domain

import "time"

// Product is an item in the shop catalogue.
type Product struct {
	ID          string    `json:"id" bson:"-"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Currency    string    `json:"currency" bson:"currency"`
	Stock       int       `json:"stock" bson:"stock"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
