// Package namestore persists the Name corpus and classification entries in
// SQLite and exposes the lookups the matching pipeline is built on.
//
// The Store owns schema initialization, normalized-spelling columns (computed
// once at insert so lookups stay deterministic), mapping writes, and batch
// run records. Mapping updates are single-record transactions: re-running an
// unchanged batch rewrites identical values and never duplicates rows.
// Manual mappings are protected at this layer; an automated write against a
// manually mapped entry fails with ErrManualMapping unless forced.
//
// Treat this package as the single source of truth for persistence
// semantics; when you add name attributes or mapping states, update
// schema.sql and bump schemaVersion.
package namestore
