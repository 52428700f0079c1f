package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
)

const (
	sessionPrefix     = "session:"
	defaultSessionTTL = 30 * time.Minute
)

// SessionStore keeps sessions as JSON values under session:<id>. Each read
// slides the expiry forward.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl, now: time.Now}
}

// Create stores a new session for identity under a random id.
func (s *SessionStore) Create(ctx context.Context, identity *domain.Identity) (*ports.Session, error) {
	sess := &ports.Session{
		ID:        uuid.NewString(),
		Subject:   identity.Subject,
		Roles:     identity.Roles,
		UserID:    identity.UserID(),
		CreatedAt: s.now().UTC(),
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, key(sess.ID), payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*ports.Session, error) {
	if id == "" {
		return nil, ports.ErrSessionNotFound
	}

	payload, err := s.client.GetEx(ctx, key(id), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess ports.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return ports.ErrSessionNotFound
	}
	return nil
}

func key(id string) string { return sessionPrefix + id }
