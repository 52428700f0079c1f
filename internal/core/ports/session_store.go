package ports

import (
	"context"
	"errors"
	"time"

	"github.com/shopfront/shop-api/internal/core/domain"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record behind a session cookie.
type Session struct {
	ID        string        `json:"id"`
	Subject   string        `json:"subject"`
	Roles     []domain.Role `json:"roles"`
	UserID    string        `json:"user_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// SessionStore persists sessions for the session authentication mode.
type SessionStore interface {
	Create(ctx context.Context, identity *domain.Identity) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
