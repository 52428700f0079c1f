package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// User directory
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User // keyed by email
	findErr error
	lookups int
	nextID  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) seed(email, password string, roles ...domain.Role) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u, _ := r.Create(context.Background(), &domain.User{
		Email:        email,
		Name:         strings.Split(email, "@")[0],
		PasswordHash: string(hash),
		Roles:        roles,
	})
	return u
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.lookups++
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		if f.Search != "" && !strings.Contains(u.Email, f.Search) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	c := cloneUser(user)
	if c.ID == "" {
		c.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	r.users[c.Email] = cloneUser(c)
	return c, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	for email, u := range r.users {
		if u.ID == id {
			delete(r.users, email)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// ---------------------------------------------------------------------------
// Sessions and audit
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	sessions  map[string]*ports.Session
	createErr error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*ports.Session)}
}

func (s *stubSessionStore) Create(_ context.Context, id *domain.Identity) (*ports.Session, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	sess := &ports.Session{
		ID:        "sess-" + id.Subject,
		Subject:   id.Subject,
		Roles:     id.Roles,
		UserID:    id.UserID(),
		CreatedAt: time.Now().UTC(),
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*ports.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	if _, ok := s.sessions[id]; !ok {
		return ports.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (r *recordingAudit) Record(ev domain.AuthEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingAudit) last() domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return domain.AuthEvent{}
	}
	return r.events[len(r.events)-1]
}

var errStoreDown = errors.New("store unavailable")
