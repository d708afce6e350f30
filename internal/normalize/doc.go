// Package normalize canonicalizes scientific-name strings for matching.
//
// Normalization strips diacritics, fixes casing, and removes punctuation so
// that spellings from different eras compare equal. On top of that the
// package implements the Code's enumerated spelling equivalences (the -i/-ii
// patronymic pair and friends) as a canonical equivalence key, plus the
// family-group rank-ending variants used when a family name was cited at a
// different rank.
//
// Every function here is pure and deterministic; the matching pipeline
// depends on that for idempotent re-runs.
package normalize
