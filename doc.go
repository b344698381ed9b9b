package verity

// Package verity provides:
//
// - Composable, immutable validation schemas executed into aggregated diagnostics (no panics, no first-failure returns)
// - A stable error model via Errors (structured Path, code, message)
// - A structurally shared, lazily rendered validation path with parse/resolve round trip
// - Context-bearing schemas with ambiguity-checked asynchronous context-factory resolution
//
// Design policy:
// - Keep only public APIs in the root package; put persistent storage under internal/.
// - Place schema construction under dsl/ and diagnostic serialization under report/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := dsl.New[Order]().
//	    Rule("positive-total", checkTotal)
//	res, err := s.Validate(ctx, order)
//	if err != nil { /* aborted: ConfigError or cancellation */ }
//	for _, e := range res.Errors() { /* {path, code, message} */ }
