package dsl

import (
	"fmt"
	"sort"

	verity "github.com/verity-go/verity"
)

// Field appends a step validating one property of T at path .name. The
// accessor extracts the property value; pairing it with the name is the
// caller's job (reflection and code generation are deliberately out of
// scope). Diagnostics from sub carry the extended path.
func Field[T, F any](s Schema[T], name string, get func(T) F, sub Target[F]) Schema[T] {
	if get == nil || sub == nil {
		return s
	}
	s.rules = s.rules.Append(func(ec verity.ExecCtx, v T) (verity.Errors, error) {
		return sub.validateAt(ec.Property(name), get(v))
	})
	return s
}

// Items appends a step validating every element of a slice in positional
// order at path [i]. Element diagnostics keep their positional order, so the
// error list is deterministic across runs.
func Items[E any](s Schema[[]E], sub Target[E]) Schema[[]E] {
	if sub == nil {
		return s
	}
	s.rules = s.rules.Append(func(ec verity.ExecCtx, v []E) (verity.Errors, error) {
		var errs verity.Errors
		for i, el := range v {
			if err := ec.Ctx.Err(); err != nil {
				return nil, err
			}
			es, err := sub.validateAt(ec.Index(i), el)
			if err != nil {
				return nil, err
			}
			errs = verity.AppendErrors(errs, es...)
		}
		return errs, nil
	})
	return s
}

// MapValues appends a step validating every value of a map at path [key].
// Keys walk in sorted textual order for deterministic diagnostics, the same
// way object keys sort in the rest of the engine.
func MapValues[K comparable, V any](s Schema[map[K]V], sub Target[V]) Schema[map[K]V] {
	if sub == nil {
		return s
	}
	s.rules = s.rules.Append(func(ec verity.ExecCtx, m map[K]V) (verity.Errors, error) {
		keys := make([]K, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
		})
		var errs verity.Errors
		for _, k := range keys {
			if err := ec.Ctx.Err(); err != nil {
				return nil, err
			}
			es, err := sub.validateAt(ec.Key(k), m[k])
			if err != nil {
				return nil, err
			}
			errs = verity.AppendErrors(errs, es...)
		}
		return errs, nil
	})
	return s
}
