package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/shop-api/internal/api/middleware"
	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
)

// currentPrincipal returns the principal the gate attached to the request.
// The policy has already rejected anonymous callers on every route that
// calls this, so a miss means the middleware chain is misconfigured.
func currentPrincipal(c echo.Context) (*middleware.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}

// directoryUserID resolves the directory id of p. Bearer tokens carry only
// the subject, so the id is looked up by email when the principal does not
// already know it. Built-in users have no directory record.
func directoryUserID(ctx context.Context, users ports.UserService, p *middleware.Principal) (string, error) {
	if p.UserID != "" {
		return p.UserID, nil
	}
	u, err := users.GetByEmail(ctx, p.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", echo.NewHTTPError(http.StatusForbidden, "a directory account is required")
		}
		return "", err
	}
	return u.ID, nil
}
