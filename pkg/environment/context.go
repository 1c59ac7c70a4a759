package environment

import (
	"context"
	"net/http"
)

type ctxKey struct{}

// WithContext returns ctx carrying env.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, ctxKey{}, env)
}

// FromContext returns the environment attached to ctx, or "" if none was.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	if env, ok := ctx.Value(ctxKey{}).(Environment); ok {
		return env
	}
	return ""
}

// IsProduction reports whether ctx carries Production.
func IsProduction(ctx context.Context) bool { return FromContext(ctx).IsProduction() }

// Middleware tags every request context with env so handlers can vary
// behaviour (error detail, startup runs) without reaching for globals.
func Middleware(env Environment) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), env)))
		})
	}
}
