package kanon

import (
	"context"
	"errors"
)

// ErrServiceUnavailable is returned by RequireService when the context
// carries no service of the requested type.
var ErrServiceUnavailable = errors.New("kanon: service not provided")

// serviceKey is a unique key per type parameter T for context storage.
type serviceKey[T any] struct{}

// WithService stores a typed service in ctx for context-aware refinements
// (see RefineContext).
func WithService[T any](ctx context.Context, svc T) context.Context {
	return context.WithValue(ctx, serviceKey[T]{}, svc)
}

// Service retrieves the service of type T from ctx.
func Service[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(serviceKey[T]{}).(T)
	return v, ok
}

// RequireService is Service returning ErrServiceUnavailable when absent, so a
// refinement can hand the error straight back.
func RequireService[T any](ctx context.Context) (T, error) {
	if v, ok := Service[T](ctx); ok {
		return v, nil
	}
	var zero T
	return zero, ErrServiceUnavailable
}
