package steam

import (
	"fmt"
	"strings"
)

// Property identifies an intensive property that can be used to fix a state.
type Property int

// Property constants.
const (
	Pressure Property = iota + 1
	Temperature
	Enthalpy
	Entropy
	Quality
)

// String returns the property name.
func (p Property) String() string {
	switch p {
	case Pressure:
		return "pressure"
	case Temperature:
		return "temperature"
	case Enthalpy:
		return "enthalpy"
	case Entropy:
		return "entropy"
	case Quality:
		return "quality"
	default:
		return fmt.Sprintf("property(%d)", int(p))
	}
}

// Symbol returns the conventional one-letter symbol (p, t, h, s, x).
func (p Property) Symbol() string {
	switch p {
	case Pressure:
		return "p"
	case Temperature:
		return "t"
	case Enthalpy:
		return "h"
	case Entropy:
		return "s"
	case Quality:
		return "x"
	default:
		return "?"
	}
}

// ParseProperty converts a symbol or name ("p", "pressure", "x", "quality", ...)
// to a Property. Matching is case-insensitive.
func ParseProperty(s string) (Property, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "pressure":
		return Pressure, nil
	case "t", "temperature":
		return Temperature, nil
	case "h", "enthalpy":
		return Enthalpy, nil
	case "s", "entropy":
		return Entropy, nil
	case "x", "quality":
		return Quality, nil
	default:
		return 0, fmt.Errorf("%w: unknown property %q", ErrUnsupportedPair, s)
	}
}

// AllProperties returns every property that can fix a state.
func AllProperties() []Property {
	return []Property{Pressure, Temperature, Enthalpy, Entropy, Quality}
}

// Input is one known property value used to fix a state.
type Input struct {
	Property Property
	Value    float64
}

// String renders the input as "p=0.01".
func (in Input) String() string {
	return fmt.Sprintf("%s=%g", in.Property.Symbol(), in.Value)
}

// P returns a pressure input in MPa.
func P(mpa float64) Input { return Input{Property: Pressure, Value: mpa} }

// T returns a temperature input in K.
func T(kelvin float64) Input { return Input{Property: Temperature, Value: kelvin} }

// H returns a specific enthalpy input in kJ/kg.
func H(kjPerKg float64) Input { return Input{Property: Enthalpy, Value: kjPerKg} }

// S returns a specific entropy input in kJ/(kg·K).
func S(kjPerKgK float64) Input { return Input{Property: Entropy, Value: kjPerKgK} }

// X returns a vapour quality input (0 saturated liquid, 1 saturated vapour).
func X(fraction float64) Input { return Input{Property: Quality, Value: fraction} }
