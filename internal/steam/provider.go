package steam

import (
	"fmt"
	"math"
)

// New returns the state fixed by two independent properties.
//
// Supported pairs (in either order): (p,T), (p,x), (T,x), (p,h), (p,s),
// (h,s). Other pairs fail with ErrUnsupportedPair. Giving the same
// property twice, or a non-finite value, fails with ErrInconsistentState.
//
// The two inputs are stored verbatim on the returned State.
func New(a, b Input) (*State, error) {
	if a.Property == b.Property {
		return nil, inconsistent("%s given twice", a.Property)
	}
	for _, in := range []Input{a, b} {
		if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
			return nil, inconsistent("%s is not finite", in.Property)
		}
	}
	if a.Property > b.Property {
		a, b = b, a
	}

	switch {
	case a.Property == Pressure && b.Property == Temperature:
		return fromPT(a.Value, b.Value)
	case a.Property == Pressure && b.Property == Quality:
		return fromPX(a.Value, b.Value)
	case a.Property == Temperature && b.Property == Quality:
		return fromTX(a.Value, b.Value)
	case a.Property == Pressure && b.Property == Enthalpy:
		return fromPH(a.Value, b.Value)
	case a.Property == Pressure && b.Property == Entropy:
		return fromPS(a.Value, b.Value)
	case a.Property == Enthalpy && b.Property == Entropy:
		return fromHS(a.Value, b.Value)
	default:
		return nil, fmt.Errorf("%w: (%s, %s)", ErrUnsupportedPair, a.Property, b.Property)
	}
}

// IF97 is the IAPWS-IF97 property provider.
//
// The zero value is ready to use and safe for concurrent use.
type IF97 struct{}

// State returns the state fixed by two independent properties. See New.
func (IF97) State(a, b Input) (*State, error) {
	return New(a, b)
}

// FromPT returns the single-phase state at pressure p and temperature t.
func (IF97) FromPT(p, t float64) (*State, error) { return New(P(p), T(t)) }

// FromPX returns the saturated state at pressure p with quality x.
func (IF97) FromPX(p, x float64) (*State, error) { return New(P(p), X(x)) }

// FromTX returns the saturated state at temperature t with quality x.
func (IF97) FromTX(t, x float64) (*State, error) { return New(T(t), X(x)) }

// FromPH returns the state at pressure p with enthalpy h.
func (IF97) FromPH(p, h float64) (*State, error) { return New(P(p), H(h)) }

// FromPS returns the state at pressure p with entropy s.
func (IF97) FromPS(p, s float64) (*State, error) { return New(P(p), S(s)) }

// FromHS returns the state with enthalpy h and entropy s.
func (IF97) FromHS(h, s float64) (*State, error) { return New(H(h), S(s)) }

// SaturationTemperature returns the saturation temperature in K at p in MPa.
func SaturationTemperature(p float64) (float64, error) {
	if err := checkPressure(p); err != nil {
		return 0, err
	}
	if p > pSatMax {
		return 0, outOfRange("saturation pressure %g MPa above %g", p, pSatMax)
	}
	return saturationTemperature(p), nil
}

// SaturationPressure returns the saturation pressure in MPa at t in K.
func SaturationPressure(t float64) (float64, error) {
	if !(t > 0) {
		return 0, inconsistent("temperature %g K must be positive", t)
	}
	if t < tMin || t > tSatMax {
		return 0, outOfRange("saturation temperature %g K outside [%g, %g]", t, tMin, tSatMax)
	}
	return saturationPressure(t), nil
}
