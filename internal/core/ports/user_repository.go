package ports

import (
	"context"

	"github.com/shopfront/shop-api/internal/core/domain"
)

// UserRepository is the user directory. FindByEmail is the lookup the
// credential verifier depends on; it returns domain.ErrUserNotFound when no
// record matches.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// ListUsersFilter carries paging and the optional email substring search.
type ListUsersFilter struct {
	Search string
	Page   int // 1-based
	Limit  int
}
