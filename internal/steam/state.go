package steam

import (
	"fmt"
	"math"
)

// Phase describes where a state lies relative to the saturation line.
type Phase string

// Phase constants.
const (
	PhaseLiquid   Phase = "liquid"
	PhaseVapour   Phase = "vapour"
	PhaseTwoPhase Phase = "two_phase"
)

// State is an immutable thermodynamic state of water.
//
// States are only produced by New and the IF97 provider. Share them by
// pointer; nothing in this package mutates a State after construction.
type State struct {
	p     float64 // MPa
	t     float64 // K
	h     float64 // kJ/kg
	s     float64 // kJ/(kg·K)
	v     float64 // m³/kg
	x     float64 // NaN outside the two-phase region
	phase Phase
}

// P returns the pressure in MPa.
func (st *State) P() float64 { return st.p }

// T returns the temperature in K.
func (st *State) T() float64 { return st.t }

// H returns the specific enthalpy in kJ/kg.
func (st *State) H() float64 { return st.h }

// S returns the specific entropy in kJ/(kg·K).
func (st *State) S() float64 { return st.s }

// V returns the specific volume in m³/kg.
func (st *State) V() float64 { return st.v }

// U returns the specific internal energy in kJ/kg.
func (st *State) U() float64 { return st.h - st.p*kPaPerMPa*st.v }

// Rho returns the density in kg/m³.
func (st *State) Rho() float64 { return 1 / st.v }

// Quality returns the vapour quality. ok is false for single-phase states,
// where quality is undefined.
func (st *State) Quality() (x float64, ok bool) {
	if math.IsNaN(st.x) {
		return 0, false
	}
	return st.x, true
}

// Phase returns the phase region of the state.
func (st *State) Phase() Phase { return st.phase }

// String implements fmt.Stringer.
func (st *State) String() string {
	if st == nil {
		return "<unset>"
	}
	if x, ok := st.Quality(); ok {
		return fmt.Sprintf("p=%.6g MPa T=%.6g K h=%.6g kJ/kg s=%.6g kJ/kgK x=%.4g", st.p, st.t, st.h, st.s, x)
	}
	return fmt.Sprintf("p=%.6g MPa T=%.6g K h=%.6g kJ/kg s=%.6g kJ/kgK (%s)", st.p, st.t, st.h, st.s, st.phase)
}

// point holds the properties computed by a forward equation at (p, T).
type point struct {
	v, h, s float64
}

// singlePhase builds a liquid or vapour state.
func singlePhase(p, t float64, pt point, phase Phase) *State {
	return &State{p: p, t: t, h: pt.h, s: pt.s, v: pt.v, x: math.NaN(), phase: phase}
}

// mixture builds a two-phase state from the saturated end points.
func mixture(p, t, x float64, liq, vap point) *State {
	return &State{
		p:     p,
		t:     t,
		h:     liq.h + x*(vap.h-liq.h),
		s:     liq.s + x*(vap.s-liq.s),
		v:     liq.v + x*(vap.v-liq.v),
		x:     x,
		phase: PhaseTwoPhase,
	}
}
