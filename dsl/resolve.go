package dsl

import (
	"errors"
	"fmt"
	"reflect"

	verity "github.com/verity-go/verity"
)

// resolveContext produces exactly one C for a self-resolving schema. It
// enumerates the reachable factories — the schema's own plus those owned by
// branches whose value predicate currently matches — invokes each, and counts
// the ones that did not self-reject with verity.ErrNotApplicable. Anything
// other than exactly one applicable factory is a schema-authoring fault
// reported as a ConfigError; a factory returning any other error is a genuine
// fault and aborts as-is. Resolution runs once per validation entry point,
// before any rule needing the context executes.
func resolveContext[T, C any](ec verity.ExecCtx, v T, cs ContextSchema[T, C]) (C, error) {
	var zero C

	factories := make([]ContextFactory[T, C], 0, 2)
	if cs.factory != nil {
		factories = append(factories, cs.factory)
	}
	for _, br := range cs.branches.Items() {
		if br.factory == nil {
			continue
		}
		if br.matchValue != nil && !br.matchValue(v) {
			continue
		}
		factories = append(factories, br.factory)
	}

	var (
		out        C
		applicable int
	)
	for _, f := range factories {
		if err := ec.Ctx.Err(); err != nil {
			return zero, err
		}
		cd, err := f(ec.Ctx, v)
		if err != nil {
			if errors.Is(err, verity.ErrNotApplicable) {
				continue
			}
			return zero, err
		}
		applicable++
		if applicable == 1 {
			out = cd
		}
	}

	switch applicable {
	case 1:
		return out, nil
	case 0:
		return zero, &verity.ConfigError{
			Op:     "context resolution",
			Detail: fmt.Sprintf("no applicable context factory for type %s and value shape %T", contextTypeName[C](), v),
		}
	default:
		return zero, &verity.ConfigError{
			Op:     "context resolution",
			Detail: fmt.Sprintf("ambiguous context factories (%d applicable) for type %s and value shape %T", applicable, contextTypeName[C](), v),
		}
	}
}

func contextTypeName[C any]() string {
	return reflect.TypeOf((*C)(nil)).Elem().String()
}
