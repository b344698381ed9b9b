package dsl

import (
	"context"

	verity "github.com/verity-go/verity"
	"github.com/verity-go/verity/internal/rulelist"
)

// ContextFactory produces context data of type C from the value under
// validation. Services and cancellation flow through ctx (verity.Service,
// ctx.Err). Returning verity.ErrNotApplicable signals the factory does not
// apply to this value's shape, a distinct outcome from a genuine failure,
// which aborts the call.
type ContextFactory[T, C any] func(ctx context.Context, v T) (C, error)

// ContextRuleFunc is a check that additionally reads resolved context data.
type ContextRuleFunc[T, C any] func(ec verity.ExecCtx, v T, cdata C) *verity.Error

type ctxCheck[T, C any] func(ec verity.ExecCtx, v T, cdata C) (verity.Errors, error)

// ContextTarget is anything a context-bearing branch can execute: a
// ContextSchema of the same context type, or the adapter returned by
// IgnoringContext.
type ContextTarget[T, C any] interface {
	validateCtxAt(ec verity.ExecCtx, v T, cdata C) (verity.Errors, error)
}

// ctxBranch pairs a predicate with a context-aware target and, optionally,
// the branch's own context factory. matchValue is the context-free predicate
// used during factory enumeration, which runs before any context exists.
type ctxBranch[T, C any] struct {
	name       string
	matchValue func(T) bool
	match      func(v T, cdata C) bool
	factory    ContextFactory[T, C]
	run        func(ec verity.ExecCtx, v T, cdata C) (verity.Errors, error)
}

// ContextSchema is a schema for T whose context rules additionally read
// context data of type C, either supplied by the caller or resolved by a
// factory. Like Schema, every fluent operation returns a new value backed by
// shared storage.
type ContextSchema[T, C any] struct {
	base     Schema[T]
	ctxRules rulelist.List[ctxCheck[T, C]]
	branches rulelist.List[ctxBranch[T, C]]
	factory  ContextFactory[T, C]
}

var _ ContextTarget[int, string] = ContextSchema[int, string]{}

// WithContext promotes a contextless schema into a context-bearing one.
// Every previously attached rule, the nullability flag, and every conditional
// branch carry forward unchanged; context rules are simply rules that
// additionally read context data, appended afterward.
func WithContext[C, T any](s Schema[T]) ContextSchema[T, C] {
	return ContextSchema[T, C]{base: s}
}

// Rule appends a contextless check; it runs with the carried base rules, in
// insertion order, before every context rule.
func (cs ContextSchema[T, C]) Rule(name string, fn RuleFunc[T]) ContextSchema[T, C] {
	cs.base = cs.base.Rule(name, fn)
	return cs
}

// Nullable marks nil input as trivially valid; context resolution and context
// rules do not run for null input.
func (cs ContextSchema[T, C]) Nullable() ContextSchema[T, C] {
	cs.base = cs.base.Nullable()
	return cs
}

// ContextRule appends a named check reading both the value and the resolved
// context data. Context rules run after every value rule, in insertion order,
// collecting every failure.
func (cs ContextSchema[T, C]) ContextRule(name string, fn ContextRuleFunc[T, C]) ContextSchema[T, C] {
	if fn == nil {
		return cs
	}
	return cs.ContextRuleE(name, func(ec verity.ExecCtx, v T, cdata C) (*verity.Error, error) {
		return fn(ec, v, cdata), nil
	})
}

// ContextRuleE appends an abort-capable context check.
func (cs ContextSchema[T, C]) ContextRuleE(name string, fn func(ec verity.ExecCtx, v T, cdata C) (*verity.Error, error)) ContextSchema[T, C] {
	if fn == nil {
		return cs
	}
	cs.ctxRules = cs.ctxRules.Append(func(ec verity.ExecCtx, v T, cdata C) (verity.Errors, error) {
		e, err := fn(ec, v, cdata)
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
	return cs
}

// When appends a context branch with a value-only predicate.
func (cs ContextSchema[T, C]) When(name string, pred func(T) bool, sub ContextTarget[T, C]) ContextSchema[T, C] {
	if pred == nil || sub == nil {
		return cs
	}
	cs.branches = cs.branches.Append(ctxBranch[T, C]{
		name:       name,
		matchValue: pred,
		match:      func(v T, _ C) bool { return pred(v) },
		run:        sub.validateCtxAt,
	})
	return cs
}

// WhenCtx appends a context branch whose predicate also reads the resolved
// context data. Such a branch cannot own a factory: its predicate needs
// context that factory enumeration has not produced yet.
func (cs ContextSchema[T, C]) WhenCtx(name string, pred func(v T, cdata C) bool, sub ContextTarget[T, C]) ContextSchema[T, C] {
	if pred == nil || sub == nil {
		return cs
	}
	cs.branches = cs.branches.Append(ctxBranch[T, C]{name: name, match: pred, run: sub.validateCtxAt})
	return cs
}

// WhenResolved appends a context branch owning its own context factory. The
// predicate is value-only so the factory can participate in enumeration; the
// branch body still runs against whichever single factory resolution picked.
func (cs ContextSchema[T, C]) WhenResolved(name string, pred func(T) bool, factory ContextFactory[T, C], sub ContextTarget[T, C]) ContextSchema[T, C] {
	if pred == nil || sub == nil {
		return cs
	}
	cs.branches = cs.branches.Append(ctxBranch[T, C]{
		name:       name,
		matchValue: pred,
		match:      func(v T, _ C) bool { return pred(v) },
		factory:    factory,
		run:        sub.validateCtxAt,
	})
	return cs
}

// Else appends a default context branch matching any value. Declare it last.
func (cs ContextSchema[T, C]) Else(sub ContextTarget[T, C]) ContextSchema[T, C] {
	return cs.When("else", func(T) bool { return true }, sub)
}

// IgnoringContext adapts a contextless target for use as a context branch
// target; the resolved context data is dropped.
func IgnoringContext[C, T any](sub Target[T]) ContextTarget[T, C] {
	return plainTarget[T, C]{sub: sub}
}

type plainTarget[T, C any] struct {
	sub Target[T]
}

func (p plainTarget[T, C]) validateCtxAt(ec verity.ExecCtx, v T, _ C) (verity.Errors, error) {
	return p.sub.validateAt(ec, v)
}

// Validate runs the schema against v with caller-supplied context data: base
// rules and branches first, then context rules, then the first matching
// context branch. The error return is abort-only, as in Schema.Validate.
func (cs ContextSchema[T, C]) Validate(ctx context.Context, v T, cdata C, opts ...verity.Option) (verity.Result[T], error) {
	ec := verity.NewExecCtx(ctx, verity.BuildOptions(opts...))
	errs, err := cs.validateCtxAt(ec, v, cdata)
	return finish(v, errs, err)
}

func (cs ContextSchema[T, C]) validateCtxAt(ec verity.ExecCtx, v T, cdata C) (verity.Errors, error) {
	errs, err := cs.base.validateAt(ec, v)
	if err != nil {
		return nil, err
	}
	if isNil(v) {
		return errs, nil
	}
	for _, chk := range cs.ctxRules.Items() {
		if err := ec.Ctx.Err(); err != nil {
			return nil, err
		}
		es, err := chk(ec, v, cdata)
		if err != nil {
			return nil, err
		}
		errs = verity.AppendErrors(errs, es...)
	}
	for _, br := range cs.branches.Items() {
		if err := ec.Ctx.Err(); err != nil {
			return nil, err
		}
		if !br.match(v, cdata) {
			continue
		}
		es, err := br.run(ec, v, cdata)
		if err != nil {
			return nil, err
		}
		errs = verity.AppendErrors(errs, es...)
		break
	}
	return errs, nil
}

// Factory embeds the schema's own context factory, making it self-resolving
// through Bound.
func (cs ContextSchema[T, C]) Factory(f ContextFactory[T, C]) ContextSchema[T, C] {
	cs.factory = f
	return cs
}

// Bound presents the schema through a contextless entry point: each
// validation call resolves context itself, via factory resolution over the
// schema's own factory and those of its matching branches, before any context
// rule runs. A Bound schema can serve as a branch target under a contextless
// parent, so sibling branches may use unrelated context types.
func (cs ContextSchema[T, C]) Bound() Bound[T, C] {
	return Bound[T, C]{schema: cs}
}

// Bound is the contextless face of a self-resolving context schema.
type Bound[T, C any] struct {
	schema ContextSchema[T, C]
}

var _ Target[int] = Bound[int, string]{}

// Validate resolves context and runs the underlying schema.
func (b Bound[T, C]) Validate(ctx context.Context, v T, opts ...verity.Option) (verity.Result[T], error) {
	ec := verity.NewExecCtx(ctx, verity.BuildOptions(opts...))
	errs, err := b.validateAt(ec, v)
	return finish(v, errs, err)
}

func (b Bound[T, C]) validateAt(ec verity.ExecCtx, v T) (verity.Errors, error) {
	// Null input never reaches factory resolution; nullability decides alone.
	if isNil(v) {
		return b.schema.base.validateAt(ec, v)
	}
	cdata, err := resolveContext(ec, v, b.schema)
	if err != nil {
		return nil, err
	}
	return b.schema.validateCtxAt(ec, v, cdata)
}
