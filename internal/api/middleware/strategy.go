package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
	"github.com/shopfront/shop-api/internal/pkg/bearer"
)

const (
	// ServiceCookieName carries the service token for the API docs.
	ServiceCookieName = "swagger_id"
	// SessionCookieName carries the session id in session mode.
	SessionCookieName = "SESSION"
)

// Strategy resolves a principal from one credential channel. ok is false
// when the channel carries no usable credential; that is never an error.
type Strategy interface {
	Authenticate(c echo.Context) (p *Principal, ok bool)
}

// BearerStrategy reads an access token from the Authorization header.
type BearerStrategy struct {
	codec ports.TokenCodec
	log   zerolog.Logger
}

func NewBearerStrategy(codec ports.TokenCodec, log zerolog.Logger) *BearerStrategy {
	return &BearerStrategy{codec: codec, log: log}
}

func (s *BearerStrategy) Authenticate(c echo.Context) (*Principal, bool) {
	token, ok := bearer.Token(c.Request().Header.Get(echo.HeaderAuthorization))
	if !ok {
		return nil, false
	}
	if !s.codec.Validate(token) {
		s.log.Debug().Str("path", c.Request().URL.Path).Msg("bearer token rejected")
		return nil, false
	}
	if kind, err := s.codec.Kind(token); err != nil || kind != domain.TokenAccess {
		s.log.Debug().Str("kind", string(kind)).Msg("bearer token is not an access token")
		return nil, false
	}

	subject, err := s.codec.ExtractSubject(token)
	if err != nil {
		return nil, false
	}
	roles, err := s.codec.ExtractRoles(token)
	if err != nil || len(roles) == 0 {
		return nil, false
	}
	return &Principal{Subject: subject, Roles: roles, Source: SourceBearer}, true
}

// ServiceCookieStrategy accepts the swagger_id cookie and grants the
// developer role. It is only consulted for documentation routes.
type ServiceCookieStrategy struct {
	codec ports.TokenCodec
	log   zerolog.Logger
}

func NewServiceCookieStrategy(codec ports.TokenCodec, log zerolog.Logger) *ServiceCookieStrategy {
	return &ServiceCookieStrategy{codec: codec, log: log}
}

func (s *ServiceCookieStrategy) Authenticate(c echo.Context) (*Principal, bool) {
	cookie, err := c.Cookie(ServiceCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	token := cookie.Value

	if !s.codec.Validate(token) {
		s.log.Debug().Msg("service cookie rejected")
		return nil, false
	}
	if isService, err := s.codec.IsServiceToken(token); err != nil || !isService {
		return nil, false
	}
	subject, err := s.codec.ExtractSubject(token)
	if err != nil {
		return nil, false
	}
	return &Principal{
		Subject: subject,
		Roles:   []domain.Role{domain.RoleDeveloper},
		Source:  SourceServiceCookie,
	}, true
}

// SessionStrategy resolves the SESSION cookie against the session store.
type SessionStrategy struct {
	store ports.SessionStore
	log   zerolog.Logger
}

func NewSessionStrategy(store ports.SessionStore, log zerolog.Logger) *SessionStrategy {
	return &SessionStrategy{store: store, log: log}
}

func (s *SessionStrategy) Authenticate(c echo.Context) (*Principal, bool) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	sess, err := s.store.Get(c.Request().Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, ports.ErrSessionNotFound) {
			s.log.Warn().Err(err).Msg("session lookup failed")
		}
		return nil, false
	}
	if len(sess.Roles) == 0 {
		return nil, false
	}
	return &Principal{
		Subject: sess.Subject,
		Roles:   sess.Roles,
		UserID:  sess.UserID,
		Source:  SourceSession,
	}, true
}

// ExpireCookie returns a cookie that makes the browser drop name.
func ExpireCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
	}
}
