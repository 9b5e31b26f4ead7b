package steam

import "errors"

// Domain errors for the steam package.
//
// ErrOutOfRange is always reported together with ErrInconsistentState, so a
// caller that only cares whether a state could be built can check the
// latter:
//
//	if errors.Is(err, steam.ErrInconsistentState) {
//	    // inputs do not describe a state the model can produce
//	}
var (
	// ErrInconsistentState is returned when two properties do not describe a
	// physically consistent state.
	ErrInconsistentState = errors.New("steam: inconsistent state")

	// ErrOutOfRange is returned when a state lies outside the modelled
	// IAPWS-IF97 regions.
	ErrOutOfRange = errors.New("steam: outside modelled range")

	// ErrUnsupportedPair is returned for property pairs the provider cannot
	// invert.
	ErrUnsupportedPair = errors.New("steam: unsupported property pair")

	// ErrNoConvergence is returned when an inverse lookup fails to converge.
	ErrNoConvergence = errors.New("steam: no convergence")
)
