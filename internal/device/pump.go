package device

import (
	"fmt"

	"github.com/nerrad567/rankine-core/internal/steam"
)

// Pump raises the pressure of a liquid isentropically using shaft work.
type Pump struct {
	Base

	// WorkIn is the shaft work rate in kW.
	WorkIn Quantity
}

var _ OutletSolver = (*Pump)(nil)

// NewPump returns an empty pump. A nil provider selects steam.IF97.
func NewPump(provider PropertyProvider) *Pump {
	return &Pump{Base: newBase(provider)}
}

// Kind returns KindPump.
func (p *Pump) Kind() Kind { return KindPump }

// SetProperty stores a named parameter (mdot, W_in, or an extra).
func (p *Pump) SetProperty(name string, value float64) {
	switch name = normalizeName(name); name {
	case ParamWorkIn:
		p.WorkIn = Set(value)
	default:
		p.setCommon(name, value)
	}
}

// Property returns a named parameter and whether it is set.
func (p *Pump) Property(name string) (float64, bool) {
	if name = normalizeName(name); name == ParamWorkIn {
		return p.WorkIn.Value()
	}
	return p.common(name)
}

// SolveForOutlet computes the outlet state from the inlet, W_in and mdot:
// h_out = h_in + W_in/mdot at the inlet entropy. The outlet is stored and
// returned; on error nothing is stored.
func (p *Pump) SolveForOutlet() (*steam.State, error) {
	if err := requireState("inlet", p.inlet); err != nil {
		return nil, fmt.Errorf("pump: %w", err)
	}
	work, err := requireEnergy(ParamWorkIn, p.WorkIn)
	if err != nil {
		return nil, fmt.Errorf("pump: %w", err)
	}
	mdot, err := requireMassFlow(p.MassFlow)
	if err != nil {
		return nil, fmt.Errorf("pump: %w", err)
	}

	h := p.inlet.H() + work/mdot
	out, err := p.provider.State(steam.H(h), steam.S(p.inlet.S()))
	if err != nil {
		return nil, fmt.Errorf("pump: outlet at h=%g, s=%g: %w", h, p.inlet.S(), err)
	}
	p.outlet = out
	return out, nil
}
