package ports

import (
	"context"

	"github.com/shopfront/shop-api/internal/core/domain"
)

// CredentialVerifier resolves a subject/secret pair to an identity.
type CredentialVerifier interface {
	Authenticate(ctx context.Context, subject, secret string) (*domain.Identity, error)
}
