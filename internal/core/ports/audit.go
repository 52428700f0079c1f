package ports

import (
	"context"

	"github.com/shopfront/shop-api/internal/core/domain"
)

// AuthEventRepository persists the authentication audit trail.
type AuthEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuthEventService processes a single audit event.
type AuthEventService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}

// AuthEventRecorder accepts audit events without blocking the caller on
// persistence.
type AuthEventRecorder interface {
	Record(event domain.AuthEvent)
}
