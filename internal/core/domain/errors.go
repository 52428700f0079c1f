package domain

import "errors"

// Authentication failures. Each one ends the current request with a 401 and
// its message as the response body.
var (
	ErrParse               = errors.New("malformed login request body")
	ErrMissingAuthHeader   = errors.New("missing bearer authorization header")
	ErrRefreshTokenInvalid = errors.New("refresh token is invalid or expired")
	ErrSubjectMismatch     = errors.New("access and refresh token subjects do not match")
	ErrUserNotFound        = errors.New("user not found")
	ErrBadCredentials      = errors.New("bad credentials")
	ErrRefreshUnsupported  = errors.New("token refresh is not available in session mode")
)

// ErrTokenMalformed is returned when a token's signature or structure does
// not verify. The authorization gate treats it as "no credentials".
var ErrTokenMalformed = errors.New("token is malformed")

var (
	ErrInvalidRole       = errors.New("invalid role")
	ErrUserExists        = errors.New("user already exists")
	ErrForbidden         = errors.New("access forbidden")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyOrder        = errors.New("order has no items")
)

var authFailures = []error{
	ErrParse,
	ErrMissingAuthHeader,
	ErrRefreshTokenInvalid,
	ErrSubjectMismatch,
	ErrUserNotFound,
	ErrBadCredentials,
	ErrRefreshUnsupported,
	ErrTokenMalformed,
}

// IsAuthFailure reports whether err belongs to the login pipeline's
// failure taxonomy.
func IsAuthFailure(err error) bool {
	for _, target := range authFailures {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCurrencyMismatch  = errors.New("order items must share one currency")
)
