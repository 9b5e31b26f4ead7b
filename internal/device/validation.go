package device

import (
	"fmt"
	"math"

	"github.com/nerrad567/rankine-core/internal/steam"
)

// ValidateMassFlow checks that a mass flow rate is finite and positive.
func ValidateMassFlow(mdot float64) error {
	if math.IsNaN(mdot) || math.IsInf(mdot, 0) {
		return fmt.Errorf("%w: %s %v is not finite", ErrInvalidParameter, ParamMassFlow, mdot)
	}
	if mdot <= 0 {
		return fmt.Errorf("%w: %s %g must be positive", ErrInvalidParameter, ParamMassFlow, mdot)
	}
	return nil
}

// ValidateEnergyRate checks that a work or heat input is finite and not
// negative.
func ValidateEnergyRate(name string, rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("%w: %s %v is not finite", ErrInvalidParameter, name, rate)
	}
	if rate < 0 {
		return fmt.Errorf("%w: %s %g must not be negative", ErrInvalidParameter, name, rate)
	}
	return nil
}

// requireMassFlow returns the mass flow, or an error when it is unset or
// invalid. Unset matches both ErrMissingInput and ErrInvalidParameter.
func requireMassFlow(q Quantity) (float64, error) {
	mdot, ok := q.Value()
	if !ok {
		return 0, fmt.Errorf("%w: %w: %s not set", ErrMissingInput, ErrInvalidParameter, ParamMassFlow)
	}
	if err := ValidateMassFlow(mdot); err != nil {
		return 0, err
	}
	return mdot, nil
}

// requireEnergy returns an energy input, or an error when it is unset or
// invalid.
func requireEnergy(name string, q Quantity) (float64, error) {
	rate, ok := q.Value()
	if !ok {
		return 0, fmt.Errorf("%w: %s not set", ErrMissingInput, name)
	}
	if err := ValidateEnergyRate(name, rate); err != nil {
		return 0, err
	}
	return rate, nil
}

func requireState(which string, st *steam.State) error {
	if st == nil {
		return fmt.Errorf("%w: %s state not set", ErrMissingInput, which)
	}
	return nil
}

// energyBalance returns (h_in - h_out)·mdot for a device with both states
// known.
func energyBalance(b *Base) (float64, error) {
	if err := requireState("inlet", b.inlet); err != nil {
		return 0, err
	}
	if err := requireState("outlet", b.outlet); err != nil {
		return 0, err
	}
	mdot, err := requireMassFlow(b.MassFlow)
	if err != nil {
		return 0, err
	}
	return (b.inlet.H() - b.outlet.H()) * mdot, nil
}
