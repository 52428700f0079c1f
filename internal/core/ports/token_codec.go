package ports

import "github.com/shopfront/shop-api/internal/core/domain"

// TokenCodec issues and verifies signed bearer tokens.
//
// Validate checks both signature and expiry. The Extract*/Is* accessors only
// check the signature, so claims of an expired token remain readable; they
// return domain.ErrTokenMalformed when the token does not verify.
type TokenCodec interface {
	IssueAccessToken(subject string, roles []domain.Role) (string, error)
	IssueRefreshToken(subject string) (string, error)
	IssueServiceToken(subject string) (string, error)

	Validate(token string) bool
	ExtractSubject(token string) (string, error)
	ExtractRoles(token string) ([]domain.Role, error)
	IsServiceToken(token string) (bool, error)
	Kind(token string) (domain.TokenKind, error)
}
