package buyers

import "errors"

var (
	// ErrNotFound is returned when a buyer does not exist or belongs to a
	// different owner.
	ErrNotFound = errors.New("buyer not found")

	// ErrMissingOwner is returned when an operation is attempted without an
	// owner identity.
	ErrMissingOwner = errors.New("owner identity is required")
)
