package auth

import "context"

// Principal is the authenticated identity resolved once at the HTTP gate and
// threaded through the request context.
type Principal struct {
	Username  string
	SessionID string
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}
