package domain

import "errors"

var (
	// ErrValidation marks input rejected by domain validation, e.g. an
	// assignment without a due date. No row is written.
	ErrValidation = errors.New("validation failed")

	// ErrConstraint marks a write the store rejected, e.g. a duplicate
	// unique key. Callers skip the item and continue.
	ErrConstraint = errors.New("constraint violation")
)
