package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
)

type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, products ports.ProductRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, products: products, logger: logger}
}

// Create prices every line from the current catalogue and stores the order
// as pending. Stock is checked but not reserved.
func (s *OrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	order := &domain.Order{
		UserID:    in.UserID,
		Status:    domain.OrderPending,
		CreatedAt: time.Now().UTC(),
		Items:     make([]domain.OrderItem, 0, len(in.Items)),
	}

	for _, item := range in.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, item.ProductID)
			}
			return nil, err
		}
		if item.Quantity <= 0 || item.Quantity > product.Stock {
			return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, product.Name)
		}
		if order.Currency == "" {
			order.Currency = product.Currency
		} else if order.Currency != product.Currency {
			return nil, domain.ErrCurrencyMismatch
		}

		line := domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		}
		order.Items = append(order.Items, line)
		order.Total += line.Subtotal()
	}
	order.Total = math.Round(order.Total*100) / 100

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Float64("total", order.Total).
		Msg("order created")
	return order, nil
}

// Get returns the order when the caller owns it or is a manager. Other
// callers get ErrOrderNotFound so order ids cannot be probed.
func (s *OrderService) Get(ctx context.Context, in ports.GetOrderInput) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if !in.IsManager && order.UserID != in.UserID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, filter ports.ListOrdersFilter) (*ports.Page[*domain.Order], error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	items, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.Page[*domain.Order]{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// UpdateStatus moves an order along its lifecycle.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, order.Status, status)
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}
