package repository

import "errors"

var (
	// ErrConflict is returned when a write loses against a concurrent writer
	// or hits a unique index.
	ErrConflict = errors.New("write conflict")
	// ErrNotFound is returned by updates whose target no longer exists.
	ErrNotFound = errors.New("document not found")
)
