package device

import "fmt"

// Condenser rejects heat from the working fluid at constant pressure.
type Condenser struct {
	Base

	// HeatOut is the heat rejection rate in kW, filled by SolveForHeatOut.
	HeatOut Quantity
}

var _ EnergySolver = (*Condenser)(nil)

// NewCondenser returns an empty condenser. A nil provider selects steam.IF97.
func NewCondenser(provider PropertyProvider) *Condenser {
	return &Condenser{Base: newBase(provider)}
}

// Kind returns KindCondenser.
func (c *Condenser) Kind() Kind { return KindCondenser }

// SetProperty stores a named parameter (mdot, Q_out, or an extra).
func (c *Condenser) SetProperty(name string, value float64) {
	switch name = normalizeName(name); name {
	case ParamHeatOut:
		c.HeatOut = Set(value)
	default:
		c.setCommon(name, value)
	}
}

// Property returns a named parameter and whether it is set.
func (c *Condenser) Property(name string) (float64, bool) {
	if name = normalizeName(name); name == ParamHeatOut {
		return c.HeatOut.Value()
	}
	return c.common(name)
}

// SolveForHeatOut computes Q_out = (h_in - h_out)·mdot, stores it and
// returns it. On error the previous Q_out is kept.
func (c *Condenser) SolveForHeatOut() (float64, error) {
	q, err := energyBalance(&c.Base)
	if err != nil {
		return 0, fmt.Errorf("condenser: %w", err)
	}
	c.HeatOut = Set(q)
	return q, nil
}

// SolveForEnergy is SolveForHeatOut.
func (c *Condenser) SolveForEnergy() (float64, error) { return c.SolveForHeatOut() }
