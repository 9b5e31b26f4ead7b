package steam

// IAPWS-IF97 constants and modelled limits.
const (
	// gasConstant is the specific gas constant of water, kJ/(kg·K).
	gasConstant = 0.461526

	// kPaPerMPa converts p·v from MPa·m³/kg to kJ/kg.
	kPaPerMPa = 1000

	// tMin is the lowest temperature covered by regions 1 and 2.
	tMin = 273.15

	// tSatMax is the upper end of region 1 and of the saturation lookups
	// this package supports (the region 3 boundary).
	tSatMax = 623.15

	// tB23Max is the temperature at which the B23 boundary reaches 100 MPa.
	tB23Max = 863.15

	// tMax is the upper end of region 2.
	tMax = 1073.15

	// pMin is the saturation pressure at tMin.
	pMin = 611.213e-6

	// pMax is the upper pressure limit of regions 1 and 2.
	pMax = 100.0
)

// pSatMax is the saturation pressure at tSatMax (about 16.529 MPa).
var pSatMax = saturationPressure(tSatMax)
