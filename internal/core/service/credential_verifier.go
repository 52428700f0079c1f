package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
)

// BuiltInUser is a superuser account that lives only in process memory.
type BuiltInUser struct {
	Name         string
	PasswordHash string
}

// CredentialVerifier checks a subject/secret pair against the built-in
// superusers first and the user directory second.
type CredentialVerifier struct {
	users    ports.UserRepository
	builtIns map[string]BuiltInUser
	log      zerolog.Logger
}

func NewCredentialVerifier(users ports.UserRepository, builtIns []BuiltInUser, log zerolog.Logger) *CredentialVerifier {
	byName := make(map[string]BuiltInUser, len(builtIns))
	for _, b := range builtIns {
		if b.Name == "" || b.PasswordHash == "" {
			continue
		}
		byName[b.Name] = b
	}
	return &CredentialVerifier{users: users, builtIns: byName, log: log}
}

// Authenticate resolves the identity for subject. A built-in name whose
// secret does not match falls through to the directory.
func (v *CredentialVerifier) Authenticate(ctx context.Context, subject, secret string) (*domain.Identity, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" || secret == "" {
		return nil, domain.ErrBadCredentials
	}

	if b, ok := v.builtIns[subject]; ok {
		if bcrypt.CompareHashAndPassword([]byte(b.PasswordHash), []byte(secret)) == nil {
			return domain.NewBuiltInIdentity(b.Name, b.PasswordHash), nil
		}
		v.log.Debug().Str("subject", subject).Msg("built-in secret mismatch, trying directory")
	}

	user, err := v.users.FindByEmail(ctx, strings.ToLower(subject))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)) != nil {
		return nil, domain.ErrBadCredentials
	}

	return domain.NewDirectoryIdentity(user), nil
}
