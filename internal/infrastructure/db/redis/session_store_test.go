package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
)

func newTestStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, ttl), mr
}

func TestSessionStore_CreateGetDelete(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	user := &domain.User{ID: "64b7f0c2a1b2c3d4e5f60718", Email: "ana@example.com", Roles: []domain.Role{domain.RoleManager}}
	sess, err := store.Create(ctx, domain.NewDirectoryIdentity(user))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected a session id")
	}
	if !mr.Exists("session:" + sess.ID) {
		t.Fatalf("expected key session:%s", sess.ID)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Subject != "ana@example.com" || got.UserID != user.ID {
		t.Errorf("unexpected session %+v", got)
	}
	if len(got.Roles) != 1 || got.Roles[0] != domain.RoleManager {
		t.Errorf("roles = %v", got.Roles)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ports.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, sess.ID); !errors.Is(err, ports.ErrSessionNotFound) {
		t.Errorf("second delete: expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	sess, err := store.Create(ctx, domain.NewBuiltInIdentity("root", "hash"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.UserID != "" {
		t.Errorf("built-in session should have no user id, got %q", sess.UserID)
	}

	mr.FastForward(45 * time.Second)
	if _, err := store.Get(ctx, sess.ID); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	// the read above pushed expiry out by another minute
	mr.FastForward(45 * time.Second)
	if _, err := store.Get(ctx, sess.ID); err != nil {
		t.Fatalf("Get after sliding: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ports.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after ttl, got %v", err)
	}
}

func TestSessionStore_UnknownAndCorrupt(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	if _, err := store.Get(ctx, ""); !errors.Is(err, ports.ErrSessionNotFound) {
		t.Errorf("empty id: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ports.ErrSessionNotFound) {
		t.Errorf("unknown id: expected ErrSessionNotFound, got %v", err)
	}

	if err := mr.Set("session:bad", "{not json"); err != nil {
		t.Fatal(err)
	}
	_, err := store.Get(ctx, "bad")
	if err == nil || errors.Is(err, ports.ErrSessionNotFound) {
		t.Errorf("corrupt payload: expected decode error, got %v", err)
	}
}

func TestSessionStore_BackendDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	store := NewSessionStore(client, time.Minute)
	mr.Close()

	_, err = store.Create(context.Background(), domain.NewBuiltInIdentity("root", "hash"))
	if err == nil {
		t.Fatal("expected error when redis is unavailable")
	}
}
