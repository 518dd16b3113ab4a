package storage

import "errors"

// Sentinel errors returned by store operations. Callers match them with
// errors.Is; messages shown to users belong to the CLI layer.
var (
	// ErrNotOpen is returned when an operation is attempted before Open
	// has succeeded.
	ErrNotOpen = errors.New("store is not open")

	// ErrNotFound is returned by Update and GetByID when no activity has
	// the given id. Delete does NOT return it: deleting a missing id is a
	// no-op success.
	ErrNotFound = errors.New("activity not found")

	// ErrIncompatibleVersion is returned by Open when the persisted schema
	// version is newer than this build understands. There is no downgrade
	// path.
	ErrIncompatibleVersion = errors.New("database schema is newer than this version of tempo")

	// ErrMigrationFailed is returned by Open when a schema migration step
	// could not complete. The previously committed version is left intact.
	ErrMigrationFailed = errors.New("schema migration failed")

	// ErrInvalidInput is returned by Create when the input fails minimal
	// shape requirements, before anything is written.
	ErrInvalidInput = errors.New("invalid activity input")
)
