package device

import (
	"fmt"

	"github.com/nerrad567/rankine-core/internal/steam"
)

// Boiler adds heat to the working fluid at constant pressure.
type Boiler struct {
	Base

	// HeatIn is the heat input rate in kW.
	HeatIn Quantity
}

var _ OutletSolver = (*Boiler)(nil)

// NewBoiler returns an empty boiler. A nil provider selects steam.IF97.
func NewBoiler(provider PropertyProvider) *Boiler {
	return &Boiler{Base: newBase(provider)}
}

// Kind returns KindBoiler.
func (b *Boiler) Kind() Kind { return KindBoiler }

// SetProperty stores a named parameter (mdot, Q_in, or an extra).
func (b *Boiler) SetProperty(name string, value float64) {
	switch name = normalizeName(name); name {
	case ParamHeatIn:
		b.HeatIn = Set(value)
	default:
		b.setCommon(name, value)
	}
}

// Property returns a named parameter and whether it is set.
func (b *Boiler) Property(name string) (float64, bool) {
	if name = normalizeName(name); name == ParamHeatIn {
		return b.HeatIn.Value()
	}
	return b.common(name)
}

// SolveForOutlet computes the outlet state from the inlet, Q_in and mdot:
// h_out = h_in + Q_in/mdot at the inlet pressure. The outlet is stored and
// returned; on error nothing is stored.
func (b *Boiler) SolveForOutlet() (*steam.State, error) {
	if err := requireState("inlet", b.inlet); err != nil {
		return nil, fmt.Errorf("boiler: %w", err)
	}
	heat, err := requireEnergy(ParamHeatIn, b.HeatIn)
	if err != nil {
		return nil, fmt.Errorf("boiler: %w", err)
	}
	mdot, err := requireMassFlow(b.MassFlow)
	if err != nil {
		return nil, fmt.Errorf("boiler: %w", err)
	}

	h := b.inlet.H() + heat/mdot
	out, err := b.provider.State(steam.P(b.inlet.P()), steam.H(h))
	if err != nil {
		return nil, fmt.Errorf("boiler: outlet at p=%g, h=%g: %w", b.inlet.P(), h, err)
	}
	b.outlet = out
	return out, nil
}
