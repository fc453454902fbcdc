package repository

import "errors"

var (
	// ErrNotFound is returned when the store holds no entry for a lookup.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateRun is returned when a run timestamp is recorded twice.
	// Timestamps are generated fresh at run start, so hitting this is a
	// logic error upstream.
	ErrDuplicateRun = errors.New("run timestamp already recorded")
)
