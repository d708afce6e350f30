// Package lint cross-checks persisted mappings after a matching run. Soft
// findings (stated year disagreeing with the mapped name, a species mapped
// outside the genus its own source placed it under) are reported for review
// but leave the mapping in place. A mapping whose name group contradicts
// the entry's rank is a hard error: the store refuses to create these, so
// one showing up means the corpus or an override changed underneath us.
package lint
