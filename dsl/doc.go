// Package dsl provides the schema construction and execution API for verity.
//
// Overview
//   - Schemas are immutable values: Rule/Nullable/When/Else/Field/Items return
//     a new schema backed by shared storage; the receiver keeps its behavior.
//   - Rules: append named checks with Rule (diagnostic-only) or RuleE
//     (abort-capable, for dependency outages). Rules run in insertion order
//     and every failure is collected; execution never stops at the first one.
//   - Composition: Field/Items/MapValues validate nested values, extending the
//     validation path at each step ($.items[0].name).
//   - Conditionals: When/WhenAs/Else pick the first matching branch at
//     validation time; only that branch runs, adding to the parent's
//     diagnostics.
//   - Context: WithContext promotes a schema to a context-bearing one;
//     ContextRule checks additionally read resolved context data. Factory plus
//     Bound makes the schema self-resolving, with ambiguity-checked factory
//     resolution across the schema and its matching branches.
//
// Entry points
//   - New[T](): create an empty schema for T.
//   - WithContext[C](s): promote a contextless schema, carrying every rule,
//     the nullability flag, and every branch forward.
//   - ContextSchema.Factory(f).Bound(): contextless face of a context-bearing
//     schema; usable as a branch target under a contextless parent so sibling
//     branches may use unrelated context types.
//
// Design guidelines
//   - Keep schema values free of per-call state; ExecCtx carries everything
//     per call and is replaced, never mutated, at each nesting step.
//   - Diagnostics carry structured paths; rendering is deferred to the edge.
//   - Conditionals are strict first-match-wins for every branch kind.
package dsl
