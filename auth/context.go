package auth

import (
	"context"
)

// contextKey is a private type for context keys, preventing collisions with
// keys set by other packages.
type contextKey string

const principalContextKey contextKey = "auth_principal"

// NewContextWithPrincipal returns a child context carrying the authenticated
// principal. Set by the RequireAuth middleware.
func NewContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from the request
// context. The second return value is false when the request did not pass
// through RequireAuth.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(*Principal)
	return principal, ok
}
