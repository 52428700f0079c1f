package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shopfront/shop-api/internal/core/domain"
)

const signingKeySize = 32

var errNoRoles = errors.New("access token requires at least one role")

// tokenClaims is the JWT payload shared by all token kinds.
type tokenClaims struct {
	Type    domain.TokenKind `json:"typ"`
	Roles   []string         `json:"roles,omitempty"`
	Swagger bool             `json:"swagger,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 tokens with a single key held for the
// lifetime of the process.
type TokenCodec struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	strict  *jwt.Parser
	lenient *jwt.Parser
}

// TokenCodecOption customises a TokenCodec.
type TokenCodecOption func(*TokenCodec)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) TokenCodecOption {
	return func(c *TokenCodec) { c.now = now }
}

// GenerateSigningKey returns a fresh random HMAC key. Tokens signed with it
// stop verifying once the process exits.
func GenerateSigningKey() ([]byte, error) {
	key := make([]byte, signingKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return key, nil
}

func NewTokenCodec(key []byte, accessTTL, refreshTTL time.Duration, opts ...TokenCodecOption) (*TokenCodec, error) {
	if len(key) == 0 {
		return nil, errors.New("token codec: signing key is empty")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token codec: ttl must be positive")
	}

	c := &TokenCodec{
		key:        append([]byte(nil), key...),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Strict base64 decoding rejects signatures that differ only in the
	// unused trailing bits of the last character.
	methods := jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})
	c.strict = jwt.NewParser(methods, jwt.WithStrictDecoding(), jwt.WithTimeFunc(func() time.Time { return c.now() }))
	c.lenient = jwt.NewParser(methods, jwt.WithStrictDecoding(), jwt.WithoutClaimsValidation())
	return c, nil
}

// IssueAccessToken encodes subject and roles, expiring after the access TTL.
func (c *TokenCodec) IssueAccessToken(subject string, roles []domain.Role) (string, error) {
	if len(roles) == 0 {
		return "", errNoRoles
	}
	return c.sign(subject, tokenClaims{
		Type:  domain.TokenAccess,
		Roles: domain.RoleStrings(roles),
	}, c.accessTTL)
}

// IssueRefreshToken encodes only the subject, expiring after the refresh TTL.
func (c *TokenCodec) IssueRefreshToken(subject string) (string, error) {
	return c.sign(subject, tokenClaims{Type: domain.TokenRefresh}, c.refreshTTL)
}

// IssueServiceToken encodes the subject and the swagger marker. It carries
// no expiry.
func (c *TokenCodec) IssueServiceToken(subject string) (string, error) {
	return c.sign(subject, tokenClaims{Type: domain.TokenService, Swagger: true}, 0)
}

func (c *TokenCodec) sign(subject string, claims tokenClaims, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is empty")
	}

	issuedAt := c.now().Truncate(time.Second)
	claims.Subject = subject
	claims.ID = uuid.NewString()
	claims.IssuedAt = jwt.NewNumericDate(issuedAt)
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", claims.Type, err)
	}
	return signed, nil
}

// Validate reports whether the signature verifies and, when the token has an
// expiry, whether it is still in the future.
func (c *TokenCodec) Validate(token string) bool {
	_, err := c.strict.ParseWithClaims(token, &tokenClaims{}, c.keyFunc)
	return err == nil
}

func (c *TokenCodec) ExtractSubject(token string) (string, error) {
	claims, err := c.claims(token)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", domain.ErrTokenMalformed)
	}
	return claims.Subject, nil
}

// ExtractRoles returns the embedded role list; refresh and service tokens
// yield an empty slice.
func (c *TokenCodec) ExtractRoles(token string) ([]domain.Role, error) {
	claims, err := c.claims(token)
	if err != nil {
		return nil, err
	}
	roles, err := domain.ParseRoles(claims.Roles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	return roles, nil
}

func (c *TokenCodec) IsServiceToken(token string) (bool, error) {
	claims, err := c.claims(token)
	if err != nil {
		return false, err
	}
	return claims.Swagger, nil
}

func (c *TokenCodec) Kind(token string) (domain.TokenKind, error) {
	claims, err := c.claims(token)
	if err != nil {
		return "", err
	}
	switch claims.Type {
	case domain.TokenAccess, domain.TokenRefresh, domain.TokenService:
		return claims.Type, nil
	default:
		return "", fmt.Errorf("%w: unknown token type %q", domain.ErrTokenMalformed, claims.Type)
	}
}

// claims verifies the signature only; expired tokens still decode.
func (c *TokenCodec) claims(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if _, err := c.lenient.ParseWithClaims(token, claims, c.keyFunc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	return claims, nil
}

func (c *TokenCodec) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return c.key, nil
}
