package steam

import "math"

// region4N is the coefficient set of the IAPWS-IF97 saturation equation
// (table 34). Index 0 is unused so indices match the published n1..n10.
var region4N = [11]float64{
	0,
	0.11670521452767e4,
	-0.72421316703206e6,
	-0.17073846940092e2,
	0.12020824702470e5,
	-0.32325550322333e7,
	0.14915108613530e2,
	-0.48232657361591e4,
	0.40511340542057e6,
	-0.23855557567849,
	0.65017534844798e3,
}

// saturationPressure returns the saturation pressure in MPa at T in K.
func saturationPressure(t float64) float64 {
	n := region4N
	theta := t + n[9]/(t-n[10])
	a := theta*theta + n[1]*theta + n[2]
	b := n[3]*theta*theta + n[4]*theta + n[5]
	c := n[6]*theta*theta + n[7]*theta + n[8]
	return math.Pow(2*c/(-b+math.Sqrt(b*b-4*a*c)), 4)
}

// saturationTemperature returns the saturation temperature in K at p in MPa.
func saturationTemperature(p float64) float64 {
	n := region4N
	beta := math.Pow(p, 0.25)
	e := beta*beta + n[3]*beta + n[6]
	f := n[1]*beta*beta + n[4]*beta + n[7]
	g := n[2]*beta*beta + n[5]*beta + n[8]
	d := 2 * g / (-f - math.Sqrt(f*f-4*e*g))
	return (n[10] + d - math.Sqrt((n[10]+d)*(n[10]+d)-4*(n[9]+n[10]*d))) / 2
}

// B23 boundary coefficients (IAPWS-IF97 table 1).
const (
	b23N1 = 0.34805185628969e3
	b23N2 = -0.11671859879975e1
	b23N3 = 0.10192970039326e-2
	b23N4 = 0.57254459862746e3
	b23N5 = 0.13918839778870e2
)

// b23Pressure returns the region 2/3 boundary pressure in MPa at T in K.
func b23Pressure(t float64) float64 {
	return b23N1 + b23N2*t + b23N3*t*t
}

// b23Temperature returns the region 2/3 boundary temperature in K at p in MPa.
func b23Temperature(p float64) float64 {
	return b23N4 + math.Sqrt((p-b23N5)/b23N3)
}

// saturation holds both ends of the saturation line at one pressure.
type saturation struct {
	p, t     float64
	liq, vap point
}

// saturationAtPressure evaluates the saturated liquid and vapour at p.
// p must lie in [pMin, pSatMax].
func saturationAtPressure(p float64) saturation {
	t := saturationTemperature(p)
	return saturation{p: p, t: t, liq: region1(p, t), vap: region2(p, t)}
}

// saturationAtTemperature evaluates the saturated liquid and vapour at T.
// T must lie in [tMin, tSatMax].
func saturationAtTemperature(t float64) saturation {
	p := saturationPressure(t)
	return saturation{p: p, t: t, liq: region1(p, t), vap: region2(p, t)}
}
