package middleware

import (
	"github.com/bmatcuk/doublestar/v4"
)

// DocRoutePatterns are the API documentation paths. Only the service cookie
// authenticates requests to them in JWT mode.
var DocRoutePatterns = []string{
	"/swagger-ui*",
	"/swagger-ui/**",
	"/v2/api-docs",
	"/swagger-resources*",
	"/swagger-resources/**",
}

// IsDocRoute reports whether path is an API documentation path.
func IsDocRoute(path string) bool {
	return matchAny(DocRoutePatterns, path)
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
