package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims presented to the trust service.
type Claims struct {
	jwt.RegisteredClaims
	Roles      []string  `json:"roles"`
	IdentityID uuid.UUID `json:"identity_id"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole reports whether the claims include at least one of roles.
func (c Claims) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

// Role constants
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleService   = "service"
	RoleMember    = "member"
)
