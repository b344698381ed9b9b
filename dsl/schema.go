package dsl

import (
	"context"
	"reflect"

	verity "github.com/verity-go/verity"
	"github.com/verity-go/verity/internal/rulelist"
)

// RuleFunc is a single pass/fail check. It returns nil to accept the value or
// a diagnostic, normally built with ec.Issue so it lands at the current path.
// Checks needing I/O use ec.Ctx and must observe cancellation.
type RuleFunc[T any] func(ec verity.ExecCtx, v T) *verity.Error

// check is the engine-level unit of execution: it may emit several
// diagnostics (nested schemas) and may abort (config error, cancellation).
type check[T any] func(ec verity.ExecCtx, v T) (verity.Errors, error)

// Target is anything a conditional branch or a nested field can execute
// against a value: a Schema, a Bound self-resolving schema, or the adapter
// returned by As.
type Target[T any] interface {
	validateAt(ec verity.ExecCtx, v T) (verity.Errors, error)
}

// Schema is a reusable, immutable set of validation rules for T. Every
// fluent operation returns a new value backed by shared persistent storage,
// so a schema handed to two callers cannot be corrupted by either caller's
// later extension. The zero value accepts everything non-nil.
type Schema[T any] struct {
	rules    rulelist.List[check[T]]
	nullable bool
	branches rulelist.List[branch[T]]
}

var _ Target[int] = Schema[int]{}

// New returns an empty schema for T.
func New[T any]() Schema[T] { return Schema[T]{} }

// Rule appends a named check. Rules execute strictly in insertion order and
// every failure is collected; execution never short-circuits on a diagnostic.
func (s Schema[T]) Rule(name string, fn RuleFunc[T]) Schema[T] {
	if fn == nil {
		return s
	}
	return s.RuleE(name, func(ec verity.ExecCtx, v T) (*verity.Error, error) {
		return fn(ec, v), nil
	})
}

// RuleE appends a named check that can also abort the whole call, for
// dependency outages and other faults that are not diagnostics about the
// input.
func (s Schema[T]) RuleE(name string, fn func(ec verity.ExecCtx, v T) (*verity.Error, error)) Schema[T] {
	if fn == nil {
		return s
	}
	s.rules = s.rules.Append(func(ec verity.ExecCtx, v T) (verity.Errors, error) {
		e, err := fn(ec, v)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, nil
		}
		out := *e
		if out.Path == nil {
			out.Path = ec.Path
		}
		if out.Rule == "" {
			out.Rule = name
		}
		return verity.Errors{out}, nil
	})
	return s
}

// Nullable marks nil input as trivially valid: validation succeeds with zero
// diagnostics and no rules or branches run.
func (s Schema[T]) Nullable() Schema[T] {
	s.nullable = true
	return s
}

// Validate runs the schema against v. The Result carries the ordered
// diagnostic list; a non-nil error means the call aborted (a ConfigError
// describing the schema, or context cancellation) and no Result is produced.
func (s Schema[T]) Validate(ctx context.Context, v T, opts ...verity.Option) (verity.Result[T], error) {
	ec := verity.NewExecCtx(ctx, verity.BuildOptions(opts...))
	errs, err := s.validateAt(ec, v)
	return finish(v, errs, err)
}

func (s Schema[T]) validateAt(ec verity.ExecCtx, v T) (verity.Errors, error) {
	if isNil(v) {
		if s.nullable {
			return nil, nil
		}
		return verity.Errors{*ec.Issue(verity.CodeNullNotAllowed, "null not allowed")}, nil
	}
	var errs verity.Errors
	for _, chk := range s.rules.Items() {
		if err := ec.Ctx.Err(); err != nil {
			return nil, err
		}
		es, err := chk(ec, v)
		if err != nil {
			return nil, err
		}
		errs = verity.AppendErrors(errs, es...)
	}
	es, err := runBranches(ec, v, s.branches.Items())
	if err != nil {
		return nil, err
	}
	return verity.AppendErrors(errs, es...), nil
}

// finish folds collected diagnostics into a Result, letting aborts through.
func finish[T any](v T, errs verity.Errors, err error) (verity.Result[T], error) {
	if err != nil {
		var zero verity.Result[T]
		return zero, err
	}
	if len(errs) > 0 {
		return verity.Fail(v, errs), nil
	}
	return verity.OK(v), nil
}

// isNil reports whether v is the null input for its kind. Non-nilable kinds
// are never null.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
