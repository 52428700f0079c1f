package service

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopfront/shop-api/internal/core/domain"
)

// fakeClock is a settable time source for token tests.
type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCodec(t *testing.T, clock *fakeClock) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec([]byte("test-signing-key-0123456789abcdef"), 15*time.Minute, 24*time.Hour, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	return codec
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestTokenCodec_AccessRoundTrip(t *testing.T) {
	clock := newClock()
	codec := newTestCodec(t, clock)
	roles := []domain.Role{domain.RoleUser, domain.RoleManager}

	token, err := codec.IssueAccessToken("alice@example.com", roles)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	check := func(stage string) {
		sub, err := codec.ExtractSubject(token)
		if err != nil || sub != "alice@example.com" {
			t.Fatalf("%s: subject = %q, %v", stage, sub, err)
		}
		got, err := codec.ExtractRoles(token)
		if err != nil || !reflect.DeepEqual(got, roles) {
			t.Fatalf("%s: roles = %v, %v", stage, got, err)
		}
		kind, err := codec.Kind(token)
		if err != nil || kind != domain.TokenAccess {
			t.Fatalf("%s: kind = %q, %v", stage, kind, err)
		}
	}

	check("fresh")
	clock.Advance(time.Hour)
	if codec.Validate(token) {
		t.Fatalf("expected expired token to fail Validate")
	}
	check("expired")
}

func TestTokenCodec_ExpirationBoundary(t *testing.T) {
	clock := newClock()
	codec := newTestCodec(t, clock)

	token, err := codec.IssueAccessToken("bob@example.com", []domain.Role{domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	clock.Advance(15*time.Minute - time.Second)
	if !codec.Validate(token) {
		t.Fatalf("token should be valid one second before expiry")
	}

	clock.Advance(time.Second)
	if codec.Validate(token) {
		t.Fatalf("token should be invalid at issued_at + ttl")
	}
	if _, err := codec.ExtractSubject(token); err != nil {
		t.Fatalf("subject should remain extractable after expiry: %v", err)
	}
}

func TestTokenCodec_RefreshToken(t *testing.T) {
	clock := newClock()
	codec := newTestCodec(t, clock)

	token, err := codec.IssueRefreshToken("carol@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	roles, err := codec.ExtractRoles(token)
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if len(roles) != 0 {
		t.Fatalf("refresh token must not carry roles, got %v", roles)
	}
	if kind, _ := codec.Kind(token); kind != domain.TokenRefresh {
		t.Fatalf("expected refresh kind, got %q", kind)
	}

	clock.Advance(23 * time.Hour)
	if !codec.Validate(token) {
		t.Fatalf("refresh token should outlive the access ttl")
	}
	clock.Advance(time.Hour)
	if codec.Validate(token) {
		t.Fatalf("refresh token should expire after refresh ttl")
	}
}

func TestTokenCodec_ServiceTokenNeverExpires(t *testing.T) {
	clock := newClock()
	codec := newTestCodec(t, clock)

	token, err := codec.IssueServiceToken("dev@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	clock.Advance(365 * 24 * time.Hour)
	if !codec.Validate(token) {
		t.Fatalf("service token should validate without expiry")
	}
	ok, err := codec.IsServiceToken(token)
	if err != nil || !ok {
		t.Fatalf("IsServiceToken = %v, %v", ok, err)
	}

	access, _ := codec.IssueAccessToken("dev@example.com", []domain.Role{domain.RoleDeveloper})
	if ok, _ := codec.IsServiceToken(access); ok {
		t.Fatalf("access token must not be a service token")
	}
}

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func TestTokenCodec_TamperedSignature(t *testing.T) {
	codec := newTestCodec(t, newClock())

	token, err := codec.IssueAccessToken("eve@example.com", []domain.Role{domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	for pos := range parts[2] {
		sig := []byte(parts[2])
		idx := strings.IndexByte(base64URLAlphabet, sig[pos])
		// Every replacement for the last character, where only some bits
		// of the character carry data.
		for delta := 1; delta < 4; delta++ {
			if pos != len(sig)-1 && delta > 1 {
				break
			}
			sig[pos] = base64URLAlphabet[idx^delta]
			tampered := parts[0] + "." + parts[1] + "." + string(sig)

			if codec.Validate(tampered) {
				t.Fatalf("pos %d %q: tampered token must not validate", pos, sig[pos])
			}
			if _, err := codec.ExtractSubject(tampered); !errors.Is(err, domain.ErrTokenMalformed) {
				t.Fatalf("pos %d: ExtractSubject: expected ErrTokenMalformed, got %v", pos, err)
			}
			if _, err := codec.ExtractRoles(tampered); !errors.Is(err, domain.ErrTokenMalformed) {
				t.Fatalf("pos %d: ExtractRoles: expected ErrTokenMalformed, got %v", pos, err)
			}
		}
	}
}

func TestTokenCodec_ForeignKeyAndGarbage(t *testing.T) {
	codec := newTestCodec(t, newClock())
	other, err := NewTokenCodec([]byte("another-key"), time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}

	foreign, _ := other.IssueAccessToken("mallory@example.com", []domain.Role{domain.RoleManager})
	for _, token := range []string{foreign, "not-a-token", ""} {
		if codec.Validate(token) {
			t.Errorf("Validate(%q) = true", token)
		}
		if _, err := codec.ExtractSubject(token); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Errorf("ExtractSubject(%q): expected ErrTokenMalformed, got %v", token, err)
		}
	}
}

func TestTokenCodec_RejectsNoneAlgorithm(t *testing.T) {
	codec := newTestCodec(t, newClock())

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":   "mallory@example.com",
		"typ":   "access",
		"roles": []string{"ROLE_MANAGER"},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if codec.Validate(token) {
		t.Fatalf("alg=none token must not validate")
	}
}

func TestTokenCodec_AccessRequiresRoles(t *testing.T) {
	codec := newTestCodec(t, newClock())
	if _, err := codec.IssueAccessToken("nobody@example.com", nil); err == nil {
		t.Fatalf("expected error for empty role set")
	}
}

func TestGenerateSigningKey(t *testing.T) {
	a, err := GenerateSigningKey()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, _ := GenerateSigningKey()
	if len(a) != signingKeySize || reflect.DeepEqual(a, b) {
		t.Fatalf("expected two distinct %d-byte keys", signingKeySize)
	}
}
