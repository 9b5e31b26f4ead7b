// Package steam provides water and steam properties for Rankine Core.
//
// It implements the IAPWS Industrial Formulation 1997 (IAPWS-IF97) for the
// regions a simple Rankine cycle passes through:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│  p [MPa]                                                     │
//	│  100 ┤ Region 1      │ Region 3 │        Region 2            │
//	│      │ (liquid)      │ (not     │        (vapour)            │
//	│      │               │ modelled)│                            │
//	│ 16.5 ┤───────────────┘──B23─────┘                            │
//	│      │     Region 4 (saturation line, T ≤ 623.15 K)          │
//	│      └──────────────────────────────────────────────── T [K] │
//	└──────────────────────────────────────────────────────────────┘
//
// # Units
//
// Pressure MPa, temperature K, specific enthalpy kJ/kg, specific entropy
// kJ/(kg·K), specific volume m³/kg. Quality is the vapour mass fraction.
//
// # Usage
//
//	// Saturated liquid at 0.01 MPa
//	st, err := steam.New(steam.P(0.01), steam.X(0))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(st.T(), st.H(), st.S())
//
// A State is immutable. The two properties it was built from are kept
// verbatim; every other property is computed from them. Inverse lookups
// ((p,h), (p,s), (h,s)) are solved by bracketed bisection over the forward
// equations.
//
// Region 3 and region 5 are not modelled. Inputs that land there fail with
// ErrOutOfRange.
package steam
