package domain

import "strings"

// Role is the canonical, prefixed role claim embedded in tokens and stored
// with principals, e.g. "ROLE_ADMIN".
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

const rolePrefix = "ROLE_"

// NormalizeRole canonicalizes a raw role string: case-insensitive, the
// "ROLE_" prefix optional on input, empty defaults to ROLE_USER. Applied both
// when issuing tokens and when extracting them so no raw role ever leaks
// past either boundary.
func NormalizeRole(raw string) Role {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return RoleUser
	}
	if !strings.HasPrefix(trimmed, rolePrefix) {
		trimmed = rolePrefix + trimmed
	}
	return Role(trimmed)
}

// IsAdmin reports whether the role grants admin authority.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Label returns the simplified role label used in API responses.
func (r Role) Label() string {
	if r.IsAdmin() {
		return "ADMIN"
	}
	return "USER"
}
