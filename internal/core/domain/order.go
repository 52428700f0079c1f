package domain

import "time"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// validOrderTransitions defines the allowed state machine transitions.
var validOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderCancelled},
	OrderPaid:    {OrderShipped, OrderCancelled},
	OrderShipped: {OrderDelivered},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validOrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a single order line. UnitPrice is copied from the product at
// order time so later price changes do not rewrite history.
type OrderItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
}

// Subtotal is UnitPrice × Quantity.
func (i OrderItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Order is placed by a directory user.
type Order struct {
	ID        string      `json:"id" bson:"-"`
	UserID    string      `json:"user_id" bson:"user_id"`
	Items     []OrderItem `json:"items" bson:"items"`
	Total     float64     `json:"total" bson:"total"`
	Currency  string      `json:"currency" bson:"currency"`
	Status    OrderStatus `json:"status" bson:"status"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}
