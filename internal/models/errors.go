package models

import "errors"

// Errors returned by the snapshot engine. Commands translate these into
// distinct exit codes; the engine itself never terminates the process.
var (
	ErrNotInitialized         = errors.New("project is not initialized")
	ErrAlreadyInitialized     = errors.New("project is already initialized")
	ErrMissingDestination     = errors.New("no destination path configured")
	ErrDestinationUnavailable = errors.New("destination is not available")
	ErrDuplicateTimestamp     = errors.New("a snapshot with this timestamp already exists")
	ErrPackingFailed          = errors.New("packing the project tree failed")
	ErrNoSnapshots            = errors.New("no snapshots found")
	ErrSnapshotNotFound       = errors.New("snapshot not found")
	ErrUnpackFailed           = errors.New("unpacking the snapshot failed")
)
