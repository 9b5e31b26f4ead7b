package device

import "fmt"

// Turbine expands the working fluid and produces shaft work. Both states
// are fixed by the caller; the turbine only reports the work.
type Turbine struct {
	Base

	// WorkOut is the shaft work rate in kW, filled by SolveForWorkOut.
	WorkOut Quantity
}

var _ EnergySolver = (*Turbine)(nil)

// NewTurbine returns an empty turbine. A nil provider selects steam.IF97.
func NewTurbine(provider PropertyProvider) *Turbine {
	return &Turbine{Base: newBase(provider)}
}

// Kind returns KindTurbine.
func (t *Turbine) Kind() Kind { return KindTurbine }

// SetProperty stores a named parameter (mdot, W_out, or an extra).
func (t *Turbine) SetProperty(name string, value float64) {
	switch name = normalizeName(name); name {
	case ParamWorkOut:
		t.WorkOut = Set(value)
	default:
		t.setCommon(name, value)
	}
}

// Property returns a named parameter and whether it is set.
func (t *Turbine) Property(name string) (float64, bool) {
	if name = normalizeName(name); name == ParamWorkOut {
		return t.WorkOut.Value()
	}
	return t.common(name)
}

// SolveForWorkOut computes W_out = (h_in - h_out)·mdot, stores it and
// returns it. On error the previous W_out is kept.
func (t *Turbine) SolveForWorkOut() (float64, error) {
	w, err := energyBalance(&t.Base)
	if err != nil {
		return 0, fmt.Errorf("turbine: %w", err)
	}
	t.WorkOut = Set(w)
	return w, nil
}

// SolveForEnergy is SolveForWorkOut.
func (t *Turbine) SolveForEnergy() (float64, error) { return t.SolveForWorkOut() }
