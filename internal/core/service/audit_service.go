package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
)

type authEventService struct {
	repo ports.AuthEventRepository
	log  zerolog.Logger
}

// NewAuthEventService returns an AuthEventService that persists each event
// to the audit trail.
func NewAuthEventService(repo ports.AuthEventRepository, log zerolog.Logger) ports.AuthEventService {
	return &authEventService{repo: repo, log: log}
}

// Process persists a single authentication event.
func (s *authEventService) Process(ctx context.Context, ev domain.AuthEvent) error {
	if err := s.repo.InsertEvent(ctx, &ev); err != nil {
		return fmt.Errorf("process auth event: %w", err)
	}

	entry := s.log.Debug()
	if !ev.Success {
		entry = s.log.Info()
	}
	entry.
		Str("subject", ev.Subject).
		Str("kind", string(ev.Kind)).
		Bool("success", ev.Success).
		Str("reason", ev.Reason).
		Msg("auth event recorded")
	return nil
}
