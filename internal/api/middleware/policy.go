package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/labstack/echo/v4"

	"github.com/shopfront/shop-api/internal/api/metrics"
	"github.com/shopfront/shop-api/internal/core/domain"
)

type requirementKind int

const (
	reqAuthenticated requirementKind = iota
	reqPublic
	reqAnonymousOnly
	reqRole
)

// Requirement is what a rule demands of the caller.
type Requirement struct {
	kind requirementKind
	role domain.Role
}

var (
	// Authenticated admits any principal.
	Authenticated = Requirement{kind: reqAuthenticated}
	// Public admits everyone.
	Public = Requirement{kind: reqPublic}
	// AnonymousOnly admits only requests without a principal.
	AnonymousOnly = Requirement{kind: reqAnonymousOnly}
)

// RequireRole admits principals holding r.
func RequireRole(r domain.Role) Requirement {
	return Requirement{kind: reqRole, role: r}
}

func (r Requirement) String() string {
	switch r.kind {
	case reqPublic:
		return "public"
	case reqAnonymousOnly:
		return "anonymous"
	case reqRole:
		return "role:" + string(r.role)
	default:
		return "authenticated"
	}
}

// Rule binds a requirement to a set of methods and path globs. An empty
// Methods list matches every method.
type Rule struct {
	Methods     []string
	Patterns    []string
	Requirement Requirement
}

func (r Rule) matches(method, path string) bool {
	if len(r.Methods) > 0 {
		found := false
		for _, m := range r.Methods {
			if strings.EqualFold(m, method) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return matchAny(r.Patterns, path)
}

// DefaultRules is the shop's route table. Order matters.
func DefaultRules() []Rule {
	return []Rule{
		{Methods: []string{http.MethodDelete}, Patterns: []string{"/**"}, Requirement: RequireRole(domain.RoleManager)},
		{Methods: []string{http.MethodPost}, Patterns: []string{"/login"}, Requirement: AnonymousOnly},
		{Methods: []string{http.MethodPost}, Patterns: []string{"/logout"}, Requirement: Public},
		{Methods: []string{http.MethodPost}, Patterns: []string{"/api/users"}, Requirement: Public},
		{Methods: []string{http.MethodGet}, Patterns: []string{"/health", "/health/ready", "/metrics"}, Requirement: Public},
		{Patterns: DocRoutePatterns, Requirement: RequireRole(domain.RoleDeveloper)},
		{Methods: []string{http.MethodGet}, Patterns: []string{"/api/users", "/api/orders"}, Requirement: RequireRole(domain.RoleManager)},
		{Methods: []string{http.MethodPatch}, Patterns: []string{"/api/orders/*/status"}, Requirement: RequireRole(domain.RoleManager)},
		{Methods: []string{http.MethodPost, http.MethodPut}, Patterns: []string{"/api/products", "/api/products/**"}, Requirement: RequireRole(domain.RoleManager)},
		{Methods: []string{http.MethodGet}, Patterns: []string{"/api/products", "/api/products/**"}, Requirement: Public},
		{Patterns: []string{"/**"}, Requirement: Authenticated},
	}
}

// Policy evaluates an ordered rule table, first match wins. Requests no rule
// matches must be authenticated.
type Policy struct {
	rules []Rule
}

// NewPolicy validates every pattern up front.
func NewPolicy(rules []Rule) (*Policy, error) {
	for i, r := range rules {
		if len(r.Patterns) == 0 {
			return nil, fmt.Errorf("policy rule %d: no patterns", i)
		}
		for _, p := range r.Patterns {
			if !doublestar.ValidatePattern(p) {
				return nil, fmt.Errorf("policy rule %d: invalid pattern %q", i, p)
			}
		}
	}
	return &Policy{rules: rules}, nil
}

// Requirement returns the requirement of the first rule matching the request.
func (p *Policy) Requirement(method, path string) Requirement {
	for _, r := range p.rules {
		if r.matches(method, path) {
			return r.Requirement
		}
	}
	return Authenticated
}

// Decide returns 0 when the request may proceed, otherwise 401 or 403.
func (p *Policy) Decide(method, path string, principal *Principal) int {
	req := p.Requirement(method, path)
	switch req.kind {
	case reqPublic:
		return 0
	case reqAnonymousOnly:
		if principal != nil {
			return http.StatusForbidden
		}
		return 0
	}

	if principal == nil {
		return http.StatusUnauthorized
	}
	if req.kind == reqRole && !principal.HasRole(req.role) {
		return http.StatusForbidden
	}
	return 0
}

// Middleware enforces the policy on every request. It must run after Gate.
func (p *Policy) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, _ := PrincipalFrom(c)
			req := c.Request()

			switch status := p.Decide(req.Method, req.URL.Path, principal); status {
			case 0:
				return next(c)
			case http.StatusUnauthorized:
				metrics.PolicyDenialsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return echo.NewHTTPError(status, "authentication required")
			default:
				metrics.PolicyDenialsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
				return echo.NewHTTPError(status, "access denied")
			}
		}
	}
}
