package verity

// Result carries the outcome of one validation call: the validated value and
// the ordered diagnostic list. Validation never returns on the first failure,
// so a failed Result holds every diagnostic gathered for the input.
type Result[T any] struct {
	value T
	errs  Errors
}

// OK returns a successful result carrying the original value unchanged.
func OK[T any](v T) Result[T] { return Result[T]{value: v} }

// Fail returns a failed result carrying the diagnostics gathered for v.
func Fail[T any](v T, errs Errors) Result[T] { return Result[T]{value: v, errs: errs} }

// Valid reports whether the call produced no diagnostics.
func (r Result[T]) Valid() bool { return len(r.errs) == 0 }

// Value returns the validated value. On success it is the original input
// unchanged; verity never transforms or coerces.
func (r Result[T]) Value() T { return r.value }

// Errors returns the ordered diagnostic list; nil when valid.
func (r Result[T]) Errors() Errors { return r.errs }

// Err returns the diagnostics as an error, or nil when valid.
func (r Result[T]) Err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs
}

// Merge folds another result's diagnostics after r's, keeping r's value.
// Neither receiver nor argument is modified.
func (r Result[T]) Merge(other Result[T]) Result[T] {
	if len(other.errs) == 0 {
		return r
	}
	errs := make(Errors, 0, len(r.errs)+len(other.errs))
	errs = append(errs, r.errs...)
	errs = append(errs, other.errs...)
	return Result[T]{value: r.value, errs: errs}
}

// MapResult converts the carried value, keeping diagnostics unchanged.
func MapResult[T, U any](r Result[T], fn func(T) U) Result[U] {
	return Result[U]{value: fn(r.value), errs: r.errs}
}
