package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/shopfront/shop-api/internal/core/domain"
)

// PrincipalSource names the strategy that authenticated a request.
type PrincipalSource string

const (
	SourceBearer        PrincipalSource = "bearer"
	SourceServiceCookie PrincipalSource = "service_cookie"
	SourceSession       PrincipalSource = "session"
)

const principalKey = "principal"

// Principal is the per-request security context.
type Principal struct {
	Subject string
	Roles   []domain.Role
	// UserID is the directory id; empty for built-in and cookie principals.
	UserID string
	Source PrincipalSource
}

func (p *Principal) HasRole(r domain.Role) bool {
	return domain.HasRole(p.Roles, r)
}

// SetPrincipal stores p on the request context.
func SetPrincipal(c echo.Context, p *Principal) {
	c.Set(principalKey, p)
}

// ClearPrincipal removes any principal from the request context.
func ClearPrincipal(c echo.Context) {
	c.Set(principalKey, nil)
}

// PrincipalFrom returns the authenticated principal, if any.
func PrincipalFrom(c echo.Context) (*Principal, bool) {
	p, ok := c.Get(principalKey).(*Principal)
	return p, ok && p != nil
}
