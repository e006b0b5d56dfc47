package middleware

import (
	"context"

	"github.com/agrihub/agrihub-backend/internal/auth"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// IdentityFromContext returns the validated caller, or nil outside an
// authenticated route.
func IdentityFromContext(ctx context.Context) *auth.Identity {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxIdentity).(*auth.Identity); ok {
		return v
	}
	return nil
}

// WithIdentity injects the validated caller into the context.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}
