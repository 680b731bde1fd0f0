package gate

import "context"

type contextKeyPrincipal struct{}

// ContextKeyPrincipal is exported for use by the session middleware.
var ContextKeyPrincipal = contextKeyPrincipal{}

// ContextWithPrincipal attaches the decoded principal to the request context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, p)
}

// PrincipalFromContext retrieves the principal, or nil when unauthenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, ok := ctx.Value(ContextKeyPrincipal).(*Principal)
	if !ok {
		return nil
	}
	return p
}
