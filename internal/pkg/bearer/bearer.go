// Package bearer parses the "Authorization: Bearer <token>" header scheme.
package bearer

import "strings"

const scheme = "bearer"

// Token returns the credential carried by an Authorization header value
// using the bearer scheme. The scheme name is matched case-insensitively.
func Token(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
