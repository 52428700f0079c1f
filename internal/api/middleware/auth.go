package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// GateConfig configures the authorization gate.
type GateConfig struct {
	// Strategies are tried in order on ordinary routes; the first one that
	// yields a principal wins.
	Strategies []Strategy
	// DocStrategy, when set, is the only strategy consulted on
	// documentation routes.
	DocStrategy Strategy
	Log         zerolog.Logger
}

// Gate populates the request's principal from the configured strategies and
// always continues to the next handler. Missing, expired and malformed
// credentials all leave the request anonymous; rejecting it is up to the
// access policy.
//
// POST /login and POST /logout are passed through untouched: the
// authentication pipeline serves them on its own.
func Gate(cfg GateConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if req.Method == http.MethodPost && (path == "/login" || path == "/logout") {
				return next(c)
			}

			strategies := cfg.Strategies
			if cfg.DocStrategy != nil && IsDocRoute(path) {
				ClearPrincipal(c)
				strategies = []Strategy{cfg.DocStrategy}
			}

			for _, s := range strategies {
				if p, ok := s.Authenticate(c); ok {
					SetPrincipal(c, p)
					cfg.Log.Debug().
						Str("subject", p.Subject).
						Str("source", string(p.Source)).
						Msg("request authenticated")
					break
				}
			}
			return next(c)
		}
	}
}
