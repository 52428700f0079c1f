package ports

import (
	"context"

	"github.com/shopfront/shop-api/internal/core/domain"
)

// ListProductsFilter carries all query parameters for listing products.
type ListProductsFilter struct {
	Search   string  // optional: partial match on name
	MinPrice float64 // optional
	MaxPrice float64 // optional; 0 = unbounded
	Page     int     // 1-based
	Limit    int     // capped at 100 by the service
}

// ProductRepository defines persistence operations for the catalogue.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}
