// Package auth verifies dashboard bearer tokens against the identity
// provider's published JWKS keys and exposes the caller's role to handlers.
package auth

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Role kinds. The discriminant is set once at token verification time and
// never inferred from field presence downstream.
const (
	RoleUser       = "user"
	RoleManager    = "manager"
	RoleSuperAdmin = "super_admin"
)

// Claims is the token payload issued by the identity provider. The role
// travels in the custom:role attribute.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"custom:role,omitempty"`
}

// Principal is the authenticated caller. Kind is an explicit discriminant:
// user, manager, or super_admin.
type Principal struct {
	Kind  string
	ID    string // provider subject (cognito id)
	Email string
}

func (p Principal) IsSuperAdmin() bool { return p.Kind == RoleSuperAdmin }

// PrincipalFromClaims builds the tagged principal. The configured superadmin
// email overrides whatever role the token carries.
func PrincipalFromClaims(c *Claims, superAdminEmail string) Principal {
	email := strings.ToLower(c.Email)
	kind := c.Role
	if superAdminEmail != "" && email == superAdminEmail {
		kind = RoleSuperAdmin
	}
	return Principal{Kind: kind, ID: c.Subject, Email: email}
}

type ctxKey string

const principalCtxKey = ctxKey("principal")

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(Principal)
	return p, ok
}
