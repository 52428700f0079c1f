package domain

import "strings"

// Role is a granted authority. Values follow the ROLE_ prefix convention so
// they can be embedded in tokens and compared verbatim.
type Role string

const (
	RoleUser      Role = "ROLE_USER"
	RoleManager   Role = "ROLE_MANAGER"
	RoleDeveloper Role = "ROLE_DEVELOPER"
)

// AllRoles lists every role known to the system, lowest privilege first.
var AllRoles = []Role{RoleUser, RoleManager, RoleDeveloper}

// ParseRole accepts either the canonical name ("ROLE_MANAGER") or the short
// form ("manager"), case-insensitively.
func ParseRole(s string) (Role, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(name, "ROLE_") {
		name = "ROLE_" + name
	}
	for _, r := range AllRoles {
		if string(r) == name {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

// ParseRoles parses every entry and drops duplicates, keeping the first
// occurrence order.
func ParseRoles(values []string) ([]Role, error) {
	out := make([]Role, 0, len(values))
	seen := make(map[Role]struct{}, len(values))
	for _, v := range values {
		r, err := ParseRole(v)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

// HasRole reports whether want is present in roles.
func HasRole(roles []Role, want Role) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}

// RoleStrings converts roles to their string form (token claims, storage).
func RoleStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
