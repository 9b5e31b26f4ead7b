package device

import (
	"encoding/json"
	"strings"

	"github.com/nerrad567/rankine-core/internal/steam"
)

// Kind identifies a device variant.
type Kind string

// Kind constants.
const (
	KindPump      Kind = "pump"
	KindBoiler    Kind = "boiler"
	KindTurbine   Kind = "turbine"
	KindCondenser Kind = "condenser"
)

// AllKinds returns every device kind in cycle order.
func AllKinds() []Kind {
	return []Kind{KindPump, KindBoiler, KindTurbine, KindCondenser}
}

// Parameter names understood by SetProperty and Property.
const (
	ParamMassFlow = "mdot"
	ParamWorkIn   = "W_in"
	ParamHeatIn   = "Q_in"
	ParamWorkOut  = "W_out"
	ParamHeatOut  = "Q_out"
)

// Quantity is an optional scalar parameter. The zero value is unset.
type Quantity struct {
	value float64
	set   bool
}

// Set returns a Quantity holding v.
func Set(v float64) Quantity {
	return Quantity{value: v, set: true}
}

// Value returns the stored value and whether it has been set.
func (q Quantity) Value() (float64, bool) {
	return q.value, q.set
}

// IsSet reports whether the quantity holds a value.
func (q Quantity) IsSet() bool { return q.set }

// MarshalJSON encodes an unset quantity as null.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.set {
		return []byte("null"), nil
	}
	return json.Marshal(q.value)
}

// UnmarshalJSON decodes null as unset.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*q = Quantity{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*q = Set(v)
	return nil
}

// PropertyProvider builds fluid states from two independent properties.
// steam.IF97 is the standard implementation.
type PropertyProvider interface {
	State(a, b steam.Input) (*steam.State, error)
}

// Device is the storage contract shared by every variant.
//
// Setters never fail and never validate; checks happen when a variant
// solves.
type Device interface {
	Kind() Kind

	// SetProperty stores a named parameter. Known names route to the typed
	// fields; anything else is kept but ignored by solves.
	SetProperty(name string, value float64)

	// Property returns a named parameter and whether it is set.
	Property(name string) (float64, bool)

	SetInletState(st *steam.State)
	SetOutletState(st *steam.State)
	InletState() *steam.State
	OutletState() *steam.State
}

// OutletSolver is a device that derives its outlet state from its inlet
// state and a known energy input.
type OutletSolver interface {
	Device
	SolveForOutlet() (*steam.State, error)
}

// EnergySolver is a device that derives its energy rate from known inlet
// and outlet states.
type EnergySolver interface {
	Device
	SolveForEnergy() (float64, error)
}

// Base holds the state and parameters common to all variants. It is
// embedded by Pump, Boiler, Turbine and Condenser.
type Base struct {
	// MassFlow is the working fluid mass flow rate in kg/s.
	MassFlow Quantity

	inlet    *steam.State
	outlet   *steam.State
	extras   map[string]float64
	provider PropertyProvider
}

func newBase(provider PropertyProvider) Base {
	if provider == nil {
		provider = steam.IF97{}
	}
	return Base{provider: provider}
}

// SetInletState stores the inlet state.
func (b *Base) SetInletState(st *steam.State) { b.inlet = st }

// SetOutletState stores the outlet state.
func (b *Base) SetOutletState(st *steam.State) { b.outlet = st }

// InletState returns the inlet state, or nil when unset.
func (b *Base) InletState() *steam.State { return b.inlet }

// OutletState returns the outlet state, or nil when unset.
func (b *Base) OutletState() *steam.State { return b.outlet }

// Extras returns a copy of the parameters that no solve uses.
func (b *Base) Extras() map[string]float64 {
	cpy := make(map[string]float64, len(b.extras))
	for k, v := range b.extras {
		cpy[k] = v
	}
	return cpy
}

// setCommon stores a parameter that is not a variant field.
func (b *Base) setCommon(name string, value float64) {
	if name == ParamMassFlow {
		b.MassFlow = Set(value)
		return
	}
	if b.extras == nil {
		b.extras = make(map[string]float64)
	}
	b.extras[name] = value
}

func (b *Base) common(name string) (float64, bool) {
	if name == ParamMassFlow {
		return b.MassFlow.Value()
	}
	v, ok := b.extras[name]
	return v, ok
}

// normalizeName maps "W in" and " W_in " to "W_in".
func normalizeName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}
