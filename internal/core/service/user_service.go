package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
)

// UserService implements self-registration and directory management.
type UserService struct {
	repo       ports.UserRepository
	bcryptCost int
	log        zerolog.Logger
}

func NewUserService(repo ports.UserRepository, bcryptCost int, log zerolog.Logger) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, bcryptCost: bcryptCost, log: log}
}

// Register creates a directory user holding only RoleUser. Elevated roles
// are never granted through self-registration.
func (s *UserService) Register(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.ErrBadCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(hash),
		Roles:        []domain.Role{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *UserService) List(ctx context.Context, filter ports.ListUsersFilter) (*ports.Page[*domain.User], error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.Page[*domain.User]{
		Items:      users,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
