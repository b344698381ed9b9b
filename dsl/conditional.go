package dsl

import (
	verity "github.com/verity-go/verity"
)

// branch pairs a predicate with the sub-schema that runs when the predicate
// matches first.
type branch[T any] struct {
	name  string
	match func(v T) bool
	run   func(ec verity.ExecCtx, v T) (verity.Errors, error)
}

// When appends a conditional branch. Branches evaluate in declared order at
// validation time; the first whose predicate accepts the value runs and the
// rest do not (strict first-match-wins). Branch diagnostics add to the
// parent's — a branch never suppresses parent rule execution.
func (s Schema[T]) When(name string, pred func(T) bool, sub Target[T]) Schema[T] {
	if pred == nil || sub == nil {
		return s
	}
	s.branches = s.branches.Append(branch[T]{name: name, match: pred, run: sub.validateAt})
	return s
}

// Else appends a default branch matching any value. Declare it last: with
// first-match-wins an earlier Else shadows every later branch.
func (s Schema[T]) Else(sub Target[T]) Schema[T] {
	return s.When("else", func(T) bool { return true }, sub)
}

// WhenAs appends a polymorphic branch. narrow both confirms the value fits
// the narrowed shape U and converts it; only then does sub run, free to
// assume U. A narrow that accepts a value the sub-schema cannot handle is a
// schema-authoring defect the engine does not defend against at runtime.
func WhenAs[T, U any](s Schema[T], name string, narrow func(T) (U, bool), sub Target[U]) Schema[T] {
	if narrow == nil || sub == nil {
		return s
	}
	return s.When(name, func(v T) bool {
		_, ok := narrow(v)
		return ok
	}, As(narrow, sub))
}

// As adapts a target for the narrowed type U into a target for T. The narrow
// function confirms and converts; values it rejects contribute nothing.
func As[T, U any](narrow func(T) (U, bool), sub Target[U]) Target[T] {
	return asTarget[T, U]{narrow: narrow, sub: sub}
}

type asTarget[T, U any] struct {
	narrow func(T) (U, bool)
	sub    Target[U]
}

func (a asTarget[T, U]) validateAt(ec verity.ExecCtx, v T) (verity.Errors, error) {
	u, ok := a.narrow(v)
	if !ok {
		return nil, nil
	}
	return a.sub.validateAt(ec, u)
}

// runBranches picks the first matching branch; no match and no default
// contributes nothing.
func runBranches[T any](ec verity.ExecCtx, v T, branches []branch[T]) (verity.Errors, error) {
	for _, br := range branches {
		if err := ec.Ctx.Err(); err != nil {
			return nil, err
		}
		if !br.match(v) {
			continue
		}
		return br.run(ec, v)
	}
	return nil, nil
}
