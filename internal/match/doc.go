// Package match resolves classification entries against the canonical Name
// corpus: candidate generation, penalty scoring, and the final decision.
//
// Candidate generation dispatches on the entry's name group. Species-group
// entries get the staged search (exact root, then fuzzy within the stated
// and historical genera, then sister genera); the other groups use exact
// normalized lookups, with rank-ending variants for family-group names.
// Later stages run only when earlier stages produce nothing at all.
//
// Scoring is additive: each signal contributes a non-negative penalty and
// zero is a perfect match. The decision engine maps scored candidates onto
// one of two outcomes: a unique lowest-scoring winner, or a deferral
// carrying the full tied set for human review. Everything here is a pure
// function of the entry, the index snapshot, and the configured weights, so
// re-running an unchanged batch reproduces identical decisions.
package match
