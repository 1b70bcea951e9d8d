package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("conflict")

	// ErrInvalidReference indicates a foreign key points at a missing row.
	ErrInvalidReference = errors.New("invalid reference")
)
