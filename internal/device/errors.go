package device

import "errors"

// Domain errors for the device package.
//
// An unset mass flow matches both errors:
//
//	if errors.Is(err, device.ErrMissingInput) {
//	    // a required state or parameter was never set
//	}
var (
	// ErrMissingInput is returned when a solve runs before a required state
	// or parameter has been set.
	ErrMissingInput = errors.New("device: missing input")

	// ErrInvalidParameter is returned for a zero, negative or non-finite
	// mass flow, or a negative or non-finite energy rate.
	ErrInvalidParameter = errors.New("device: invalid parameter")
)
