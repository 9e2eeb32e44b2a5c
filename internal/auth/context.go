package auth

import "context"

// Method records which scheme authenticated a request.
type Method string

const (
	MethodBearer Method = "bearer"
	MethodBasic  Method = "basic"
)

// Identity is the authenticated principal attached to a request.
type Identity struct {
	Email  string
	Method Method
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFromContext returns the identity set by the middleware, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
