package handler

import (
	"context"

	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
)

// stubUserService serves users from a map keyed by id.
type stubUserService struct {
	users map[string]*domain.User
}

func (s *stubUserService) Register(_ context.Context, in ports.RegisterUserInput) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == in.Email {
			return nil, domain.ErrUserExists
		}
	}
	u := &domain.User{ID: "new-id", Email: in.Email, Name: in.Name, Roles: []domain.Role{domain.RoleUser}}
	if s.users == nil {
		s.users = map[string]*domain.User{}
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *stubUserService) Get(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) List(context.Context, ports.ListUsersFilter) (*ports.Page[*domain.User], error) {
	page := &ports.Page[*domain.User]{Page: 1, Limit: 20, TotalPages: 1}
	for _, u := range s.users {
		page.Items = append(page.Items, u)
	}
	page.Total = int64(len(page.Items))
	return page, nil
}

func (s *stubUserService) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// stubOrderService records the inputs it receives.
type stubOrderService struct {
	created  ports.CreateOrderInput
	getInput ports.GetOrderInput
	filter   ports.ListOrdersFilter
	order    *domain.Order
	err      error
}

func (s *stubOrderService) Create(_ context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	s.created = in
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubOrderService) Get(_ context.Context, in ports.GetOrderInput) (*domain.Order, error) {
	s.getInput = in
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubOrderService) List(_ context.Context, f ports.ListOrdersFilter) (*ports.Page[*domain.Order], error) {
	s.filter = f
	return &ports.Page[*domain.Order]{Items: []*domain.Order{s.order}, Total: 1, Page: 1, Limit: 20, TotalPages: 1}, nil
}

func (s *stubOrderService) UpdateStatus(_ context.Context, _ string, status domain.OrderStatus) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	o := *s.order
	o.Status = status
	return &o, nil
}

func (s *stubOrderService) Delete(context.Context, string) error { return s.err }

// stubProductService records the last input and id it receives.
type stubProductService struct {
	product *domain.Product
	input   ports.ProductInput
	filter  ports.ListProductsFilter
	id      string
	err     error
}

func (s *stubProductService) Create(_ context.Context, in ports.ProductInput) (*domain.Product, error) {
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubProductService) Get(_ context.Context, id string) (*domain.Product, error) {
	s.id = id
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubProductService) List(_ context.Context, f ports.ListProductsFilter) (*ports.Page[*domain.Product], error) {
	s.filter = f
	return &ports.Page[*domain.Product]{Items: []*domain.Product{s.product}, Total: 1, Page: 1, Limit: 20, TotalPages: 1}, nil
}

func (s *stubProductService) Update(_ context.Context, id string, in ports.ProductInput) (*domain.Product, error) {
	s.id, s.input = id, in
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubProductService) Delete(_ context.Context, id string) error {
	s.id = id
	return s.err
}
