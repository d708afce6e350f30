package namestore

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a record failed input validation before any
	// write was attempted.
	ErrValidation = errors.New("validation failed")
	// ErrManualMapping indicates an automated write targeted a manually
	// mapped entry without the force flag.
	ErrManualMapping = errors.New("entry is manually mapped")
	// ErrGroupMismatch indicates a mapping would link an entry to a name in
	// a different nomenclatural group. Never persisted without an explicit
	// override.
	ErrGroupMismatch = errors.New("name group does not match entry rank")
	// ErrSchemaMismatch indicates the database schema version doesn't match
	// the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
)
