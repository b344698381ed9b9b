package verity

import (
	"context"
	"reflect"
)

// serviceKey is a unique context key per service type T.
type serviceKey[T any] struct{}

// WithService stores a typed service in the context for rules and context
// factories that need external checks. Services are supplied by the hosting
// layer; the engine never constructs them.
func WithService[T any](ctx context.Context, svc T) context.Context {
	return context.WithValue(ctx, serviceKey[T]{}, any(svc))
}

// Service retrieves a typed service from the context.
func Service[T any](ctx context.Context) (T, bool) {
	var zero T
	v := ctx.Value(serviceKey[T]{})
	if v == nil {
		return zero, false
	}
	if tv, ok := v.(T); ok {
		return tv, true
	}
	return zero, false
}

// RequireService returns the typed service, or a ConfigError when the hosting
// layer did not provide one. A missing service describes the wiring, not the
// input, so callers should let the error abort the call.
func RequireService[T any](ctx context.Context) (T, error) {
	if v, ok := Service[T](ctx); ok {
		return v, nil
	}
	var zero T
	return zero, &ConfigError{Op: "service lookup", Detail: "no " + typeName[T]() + " service provided"}
}

// typeName resolves the textual name of a type parameter, interfaces
// included.
func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
