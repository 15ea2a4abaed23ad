package domain

import "errors"

// Common domain errors
var (
	ErrNotFound = errors.New("resource not found")
	// ErrConflict wraps unique constraint violations (company ref_id, job ref_id per company).
	ErrConflict = errors.New("resource already exists")
	// ErrInvalidReference is returned when a job points at a company that does not exist.
	ErrInvalidReference = errors.New("referenced resource does not exist")
)
