package verity

import (
	"context"
	"fmt"
)

// ExecCtx threads per-call execution state through a validation run: the
// ambient context (cancellation and services), the current path, the time
// source, and the active formatting. It is created fresh per call and
// extended by copy at each nesting step, never mutated, so concurrent
// validation calls against one schema cannot interfere.
type ExecCtx struct {
	Ctx        context.Context
	Path       *Path
	Clock      Clock
	Formatting *Formatting
}

// NewExecCtx builds the root execution context for one validation call.
func NewExecCtx(ctx context.Context, o Options) ExecCtx {
	if ctx == nil {
		ctx = context.Background()
	}
	if o.Clock == nil {
		o.Clock = systemClock{}
	}
	if o.Formatting == nil {
		o.Formatting = DefaultFormatting
	}
	return ExecCtx{Ctx: ctx, Path: Root(), Clock: o.Clock, Formatting: o.Formatting}
}

// Property returns a copy descended into the named property.
func (ec ExecCtx) Property(name string) ExecCtx {
	ec.Path = ec.Path.Property(name)
	return ec
}

// Index returns a copy descended into the i-th element.
func (ec ExecCtx) Index(i int) ExecCtx {
	ec.Path = ec.Path.Index(i)
	return ec
}

// Key returns a copy descended into the given map key.
func (ec ExecCtx) Key(k any) ExecCtx {
	ec.Path = ec.Path.Key(k)
	return ec
}

// Issue builds a diagnostic at the current path. kv pairs land in Params.
func (ec ExecCtx) Issue(code, message string, kv ...any) *Error {
	e := &Error{Path: ec.Path, Code: code, Message: message}
	if len(kv) > 1 {
		m := make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			m[fmt.Sprint(kv[i])] = kv[i+1]
		}
		e.Params = m
	}
	return e
}
