package steam

import (
	"fmt"
	"math"
)

// Root finding limits.
const (
	// maxIterations bounds every bisection loop.
	maxIterations = 200

	// relTolerance is the relative bracket width at which bisection stops.
	relTolerance = 1e-13
)

// bisect finds a root of f in [lo, hi]. f(lo) and f(hi) must differ in sign;
// otherwise the target is not bracketed and ErrOutOfRange is returned.
func bisect(f func(float64) float64, lo, hi float64) (float64, error) {
	flo, fhi := f(lo), f(hi)
	switch {
	case flo == 0:
		return lo, nil
	case fhi == 0:
		return hi, nil
	case math.IsNaN(flo) || math.IsNaN(fhi):
		return 0, ErrNoConvergence
	case math.Signbit(flo) == math.Signbit(fhi):
		return 0, ErrOutOfRange
	}

	for i := 0; i < maxIterations; i++ {
		mid := lo + (hi-lo)/2
		fm := f(mid)
		if fm == 0 || hi-lo <= relTolerance*math.Max(1, math.Abs(mid)) {
			return mid, nil
		}
		if math.Signbit(fm) == math.Signbit(flo) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	return 0, ErrNoConvergence
}

// outOfRange builds an error matching both ErrInconsistentState and
// ErrOutOfRange.
func outOfRange(format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", ErrInconsistentState, ErrOutOfRange, fmt.Sprintf(format, args...))
}

// inconsistent builds an ErrInconsistentState error.
func inconsistent(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInconsistentState, fmt.Sprintf(format, args...))
}

// checkPressure verifies p lies inside the modelled pressure range.
func checkPressure(p float64) error {
	if !(p > 0) {
		return inconsistent("pressure %g MPa must be positive", p)
	}
	if p < pMin || p > pMax {
		return outOfRange("pressure %g MPa outside [%g, %g]", p, pMin, pMax)
	}
	return nil
}

// checkQuality verifies x is a valid vapour mass fraction.
func checkQuality(x float64) error {
	if !(x >= 0 && x <= 1) {
		return inconsistent("quality %g outside [0, 1]", x)
	}
	return nil
}

// fromPT fixes a single-phase state from pressure and temperature.
func fromPT(p, t float64) (*State, error) {
	if err := checkPressure(p); err != nil {
		return nil, err
	}
	if !(t > 0) {
		return nil, inconsistent("temperature %g K must be positive", t)
	}
	if t < tMin || t > tMax {
		return nil, outOfRange("temperature %g K outside [%g, %g]", t, tMin, tMax)
	}

	if t <= tSatMax {
		if p >= saturationPressure(t) {
			return singlePhase(p, t, region1(p, t), PhaseLiquid), nil
		}
		return singlePhase(p, t, region2(p, t), PhaseVapour), nil
	}

	if t <= tB23Max && p > b23Pressure(t) {
		return nil, outOfRange("p=%g MPa, T=%g K lies in region 3", p, t)
	}
	return singlePhase(p, t, region2(p, t), PhaseVapour), nil
}

// fromPX fixes a saturated state from pressure and quality.
func fromPX(p, x float64) (*State, error) {
	if err := checkPressure(p); err != nil {
		return nil, err
	}
	if err := checkQuality(x); err != nil {
		return nil, err
	}
	if p > pSatMax {
		return nil, outOfRange("saturation pressure %g MPa above %g", p, pSatMax)
	}

	sat := saturationAtPressure(p)
	return mixture(p, sat.t, x, sat.liq, sat.vap), nil
}

// fromTX fixes a saturated state from temperature and quality.
func fromTX(t, x float64) (*State, error) {
	if !(t > 0) {
		return nil, inconsistent("temperature %g K must be positive", t)
	}
	if t < tMin || t > tSatMax {
		return nil, outOfRange("saturation temperature %g K outside [%g, %g]", t, tMin, tSatMax)
	}
	if err := checkQuality(x); err != nil {
		return nil, err
	}

	sat := saturationAtTemperature(t)
	return mixture(sat.p, t, x, sat.liq, sat.vap), nil
}

// pick selects one property from a forward-equation point.
type pick func(point) float64

func pickH(pt point) float64 { return pt.h }
func pickS(pt point) float64 { return pt.s }

// atPressure finds the state at pressure p whose picked property equals
// target. It is the shared core of the (p,h) and (p,s) lookups; both h and
// s increase monotonically with T along an isobar.
func atPressure(p, target float64, prop pick) (*State, error) {
	if err := checkPressure(p); err != nil {
		return nil, err
	}

	liquid := func(lo, hi float64) (*State, error) {
		t, err := bisect(func(t float64) float64 { return prop(region1(p, t)) - target }, lo, hi)
		if err != nil {
			return nil, wrapSolve(err, p, target)
		}
		return singlePhase(p, t, region1(p, t), PhaseLiquid), nil
	}
	vapour := func(lo, hi float64) (*State, error) {
		t, err := bisect(func(t float64) float64 { return prop(region2(p, t)) - target }, lo, hi)
		if err != nil {
			return nil, wrapSolve(err, p, target)
		}
		return singlePhase(p, t, region2(p, t), PhaseVapour), nil
	}

	if p <= pSatMax {
		sat := saturationAtPressure(p)
		lo, hi := prop(sat.liq), prop(sat.vap)
		switch {
		case target < lo:
			return liquid(tMin, sat.t)
		case target > hi:
			return vapour(sat.t, tMax)
		default:
			x := (target - lo) / (hi - lo)
			return mixture(p, sat.t, x, sat.liq, sat.vap), nil
		}
	}

	tB23 := b23Temperature(p)
	switch {
	case target <= prop(region1(p, tSatMax)):
		return liquid(tMin, tSatMax)
	case target >= prop(region2(p, tB23)):
		return vapour(tB23, tMax)
	default:
		return nil, outOfRange("p=%g MPa with value %g lies in region 3", p, target)
	}
}

// wrapSolve attaches context to a bisection failure.
func wrapSolve(err error, p, target float64) error {
	if err == ErrOutOfRange {
		return outOfRange("no state at p=%g MPa with value %g", p, target)
	}
	return fmt.Errorf("solving at p=%g MPa for %g: %w", p, target, err)
}

// fromPH fixes a state from pressure and enthalpy.
func fromPH(p, h float64) (*State, error) {
	st, err := atPressure(p, h, pickH)
	if err != nil {
		return nil, err
	}
	st.h = h
	return st, nil
}

// fromPS fixes a state from pressure and entropy.
func fromPS(p, s float64) (*State, error) {
	st, err := atPressure(p, s, pickS)
	if err != nil {
		return nil, err
	}
	st.s = s
	return st, nil
}

// fromHS fixes a state from enthalpy and entropy.
//
// Along an isentrope dh/dp = v > 0, so h(p, s) is monotone in p and the
// pressure can be bracketed over the whole modelled range. The search runs
// in ln(p) because the range spans six decades.
func fromHS(h, s float64) (*State, error) {
	var solveErr error
	f := func(lnP float64) float64 {
		p := math.Exp(lnP)
		st, err := fromPS(p, s)
		if err != nil {
			// Hotter than region 2 allows: the isentrope leaves the model
			// above this pressure, so the root lies below it.
			if s > region2(p, tMax).s {
				return math.Inf(1)
			}
			// Inside the region 3 gap h(p, s) is only known to lie between
			// the bounding isotherms, which is enough to steer the search.
			if p > pSatMax {
				if hLo := region1(p, tSatMax).h; h < hLo {
					return math.Inf(1)
				}
				if hHi := region2(p, b23Temperature(p)).h; h > hHi {
					return math.Inf(-1)
				}
			}
			if solveErr == nil {
				solveErr = err
			}
			return math.NaN()
		}
		return st.h - h
	}

	lnP, err := bisect(f, math.Log(pMin), math.Log(pMax))
	if solveErr != nil {
		return nil, fmt.Errorf("solving h=%g, s=%g: %w", h, s, solveErr)
	}
	if err != nil {
		if err == ErrOutOfRange {
			return nil, outOfRange("no state with h=%g kJ/kg, s=%g kJ/kgK", h, s)
		}
		return nil, fmt.Errorf("solving h=%g, s=%g: %w", h, s, err)
	}

	st, err := fromPS(math.Exp(lnP), s)
	if err != nil {
		return nil, err
	}
	st.h = h
	if x, ok := st.Quality(); ok {
		// Re-derive quality from the exact enthalpy so h, s and x agree.
		sat := saturationAtPressure(st.p)
		x = (h - sat.liq.h) / (sat.vap.h - sat.liq.h)
		st.x = math.Min(1, math.Max(0, x))
	}
	return st, nil
}
