// Package taxa defines the core nomenclatural records shared across the
// matching pipeline: canonical Names, ClassificationEntries digitized from
// historical sources, and the enumerations that drive per-group matching
// strategies.
//
// Names are owned by the wider database; this codebase reads them and writes
// only the mapped-name back-reference on ClassificationEntry. Entries are
// never deleted once created. Treat this package as the single source of
// truth for group and mapping-state semantics; when you add new ranks or
// states, update the parse helpers and the namestore schema together.
package taxa
