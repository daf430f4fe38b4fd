package repositories

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("already exists")

	// ErrVersionConflict is returned when a versioned save loses to a
	// concurrent writer. Callers should re-fetch the document and retry.
	ErrVersionConflict = errors.New("version conflict")
)
