package ports

import (
	"context"

	"github.com/shopfront/shop-api/internal/core/domain"
)

// ListOrdersFilter carries query parameters for listing orders.
type ListOrdersFilter struct {
	UserID string // empty = every user (manager view)
	Status string // optional
	Page   int
	Limit  int
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	Delete(ctx context.Context, id string) error
}
