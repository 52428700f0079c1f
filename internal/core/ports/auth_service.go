package ports

import (
	"context"

	"github.com/shopfront/shop-api/internal/core/domain"
)

// AuthMode selects how the login pipeline hands out credentials.
type AuthMode string

const (
	// AuthModeJWT issues access/refresh tokens and the swagger cookie.
	AuthModeJWT AuthMode = "jwt"
	// AuthModeSession stores a server-side session and sets a session cookie.
	AuthModeSession AuthMode = "session"
)

// LoginResult is produced by a successful primary login.
type LoginResult struct {
	Identity     *domain.Identity
	AccessToken  string
	RefreshToken string
	// ServiceToken is set only for identities holding RoleDeveloper in JWT mode.
	ServiceToken string
	// SessionID is set only in session mode.
	SessionID string
}

// RefreshInput is the refresh branch of a login request.
type RefreshInput struct {
	// AuthorizationHeader is the raw Authorization header value.
	AuthorizationHeader string
	AccessToken         string
	RefreshToken        string
	RemoteIP            string
}

// RefreshResult carries the newly minted access token.
type RefreshResult struct {
	Subject     string
	AccessToken string
}

// AuthService is the authentication pipeline behind /login and /logout.
type AuthService interface {
	Mode() AuthMode
	Login(ctx context.Context, email, password, remoteIP string) (*LoginResult, error)
	Refresh(ctx context.Context, in RefreshInput) (*RefreshResult, error)
	Logout(ctx context.Context, sessionID, remoteIP string) error
}
