package cycle

import "errors"

// Domain errors for the cycle package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, cycle.ErrRunNotFound) {
//	    // handle not found case
//	}
var (
	// ErrInvalidSpec is returned when cycle parameters fail validation.
	ErrInvalidSpec = errors.New("cycle: invalid spec")

	// ErrRunNotFound is returned when a run ID does not exist.
	ErrRunNotFound = errors.New("cycle: run not found")
)
