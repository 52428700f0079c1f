package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
	"github.com/shopfront/shop-api/internal/pkg/bearer"
)

// AuthService implements the login, refresh and logout pipeline.
type AuthService struct {
	mode     ports.AuthMode
	verifier ports.CredentialVerifier
	codec    ports.TokenCodec
	sessions ports.SessionStore
	audit    ports.AuthEventRecorder
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService wires the pipeline. sessions is required in session mode
// and ignored in JWT mode; audit may be nil.
func NewAuthService(
	mode ports.AuthMode,
	verifier ports.CredentialVerifier,
	codec ports.TokenCodec,
	sessions ports.SessionStore,
	audit ports.AuthEventRecorder,
	log zerolog.Logger,
) (*AuthService, error) {
	switch mode {
	case ports.AuthModeJWT:
		sessions = nil
	case ports.AuthModeSession:
		if sessions == nil {
			return nil, errors.New("auth service: session mode requires a session store")
		}
	default:
		return nil, fmt.Errorf("auth service: unknown mode %q", mode)
	}
	return &AuthService{
		mode:     mode,
		verifier: verifier,
		codec:    codec,
		sessions: sessions,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}, nil
}

func (s *AuthService) Mode() ports.AuthMode { return s.mode }

// Login verifies credentials and issues the credentials for the configured
// mode. In JWT mode developers additionally receive a service token.
func (s *AuthService) Login(ctx context.Context, email, password, remoteIP string) (*ports.LoginResult, error) {
	identity, err := s.verifier.Authenticate(ctx, email, password)
	if err != nil {
		s.record(domain.AuthEventLogin, email, remoteIP, err)
		return nil, err
	}

	result := &ports.LoginResult{Identity: identity}

	if s.mode == ports.AuthModeSession {
		sess, err := s.sessions.Create(ctx, identity)
		if err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		result.SessionID = sess.ID
		s.record(domain.AuthEventLogin, identity.Subject, remoteIP, nil)
		return result, nil
	}

	if result.AccessToken, err = s.codec.IssueAccessToken(identity.Subject, identity.Roles); err != nil {
		return nil, err
	}
	if result.RefreshToken, err = s.codec.IssueRefreshToken(identity.Subject); err != nil {
		return nil, err
	}
	if identity.HasRole(domain.RoleDeveloper) {
		if result.ServiceToken, err = s.codec.IssueServiceToken(identity.Subject); err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Str("subject", identity.Subject).
		Str("kind", identity.Kind.String()).
		Bool("service_token", result.ServiceToken != "").
		Msg("login succeeded")
	s.record(domain.AuthEventLogin, identity.Subject, remoteIP, nil)
	return result, nil
}

// Refresh mints a new access token from a valid refresh token. The access
// token may be expired but must be correctly signed and belong to the same
// subject; its roles are carried over unchanged.
func (s *AuthService) Refresh(ctx context.Context, in ports.RefreshInput) (*ports.RefreshResult, error) {
	subject, err := s.refresh(in)
	if err != nil {
		s.record(domain.AuthEventRefresh, subject, in.RemoteIP, err)
		return nil, err
	}

	roles, err := s.codec.ExtractRoles(in.AccessToken)
	if err != nil {
		s.record(domain.AuthEventRefresh, subject, in.RemoteIP, err)
		return nil, err
	}

	access, err := s.codec.IssueAccessToken(subject, roles)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("subject", subject).Msg("access token refreshed")
	s.record(domain.AuthEventRefresh, subject, in.RemoteIP, nil)
	return &ports.RefreshResult{Subject: subject, AccessToken: access}, nil
}

// refresh runs the checks of the refresh flow in order and returns the
// subject both tokens agree on.
func (s *AuthService) refresh(in ports.RefreshInput) (string, error) {
	if s.mode == ports.AuthModeSession {
		return "", domain.ErrRefreshUnsupported
	}
	if _, ok := bearer.Token(in.AuthorizationHeader); !ok {
		return "", domain.ErrMissingAuthHeader
	}

	if !s.codec.Validate(in.RefreshToken) {
		return "", domain.ErrRefreshTokenInvalid
	}
	if kind, err := s.codec.Kind(in.RefreshToken); err != nil || kind != domain.TokenRefresh {
		return "", domain.ErrRefreshTokenInvalid
	}
	refreshSubject, err := s.codec.ExtractSubject(in.RefreshToken)
	if err != nil {
		return "", domain.ErrRefreshTokenInvalid
	}

	if kind, err := s.codec.Kind(in.AccessToken); err != nil || kind != domain.TokenAccess {
		return refreshSubject, domain.ErrTokenMalformed
	}
	accessSubject, err := s.codec.ExtractSubject(in.AccessToken)
	if err != nil {
		return refreshSubject, domain.ErrTokenMalformed
	}
	if accessSubject != refreshSubject {
		return refreshSubject, domain.ErrSubjectMismatch
	}
	return refreshSubject, nil
}

// Logout drops the server-side session when there is one. Issued tokens are
// not revoked; they stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, sessionID, remoteIP string) error {
	if s.sessions == nil || sessionID == "" {
		s.record(domain.AuthEventLogout, "", remoteIP, nil)
		return nil
	}

	subject := ""
	if sess, err := s.sessions.Get(ctx, sessionID); err == nil {
		subject = sess.Subject
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, ports.ErrSessionNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	s.record(domain.AuthEventLogout, subject, remoteIP, nil)
	return nil
}

func (s *AuthService) record(kind domain.AuthEventKind, subject, remoteIP string, err error) {
	if s.audit == nil {
		return
	}
	ev := domain.AuthEvent{
		Subject:   subject,
		Kind:      kind,
		Success:   err == nil,
		RemoteIP:  remoteIP,
		Timestamp: s.now().UTC(),
	}
	if err != nil {
		ev.Reason = err.Error()
	}
	s.audit.Record(ev)
}
