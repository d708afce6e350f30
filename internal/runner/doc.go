// Package runner orchestrates batch matching runs: lock acquisition, index
// construction, worker fan-out, and persistence of every outcome. A run is
// the unit of provenance; each mapping it writes carries the run's ID.
//
// Exactly one run may touch a database at a time, enforced with a file
// lock beside the data directory. Within a run, workers share one
// immutable index and one matcher, and a single entry failing to persist
// never aborts the batch. Re-running an unchanged corpus rewrites the
// same decisions, so runs are safe to repeat.
package runner
