package ports

import (
	"context"

	"github.com/shopfront/shop-api/internal/core/domain"
)

// RegisterUserInput carries self-registration data.
type RegisterUserInput struct {
	Email    string
	Name     string
	Password string
}

// UserService covers directory use cases outside authentication.
type UserService interface {
	Register(ctx context.Context, in RegisterUserInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) (*Page[*domain.User], error)
	Delete(ctx context.Context, id string) error
}

// ProductInput is the writable part of a product.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Currency    string
	Stock       int
}

// ProductService defines catalogue use cases.
type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ListProductsFilter) (*Page[*domain.Product], error)
	Update(ctx context.Context, id string, in ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// OrderItemInput is one requested order line.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// CreateOrderInput carries a new order for UserID.
type CreateOrderInput struct {
	UserID string
	Items  []OrderItemInput
}

// GetOrderInput identifies an order and the caller asking for it. Only the
// owner or a manager may read an order.
type GetOrderInput struct {
	OrderID   string
	UserID    string
	IsManager bool
}

// OrderService defines ordering use cases.
type OrderService interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	Get(ctx context.Context, in GetOrderInput) (*domain.Order, error)
	List(ctx context.Context, filter ListOrdersFilter) (*Page[*domain.Order], error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}
