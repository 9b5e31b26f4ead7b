package steam

import (
	"math"
	"testing"
)

// relClose reports whether got is within rel of want.
func relClose(got, want, rel float64) bool {
	if want == 0 {
		return math.Abs(got) <= rel
	}
	return math.Abs(got-want) <= rel*math.Abs(want)
}

func TestRegion1VerificationValues(t *testing.T) {
	tests := []struct {
		name    string
		t, p    float64
		v, h, s float64
	}{
		{"300K 3MPa", 300, 3, 0.100215168e-2, 0.115331273e3, 0.392294792},
		{"300K 80MPa", 300, 80, 0.971180894e-3, 0.184142828e3, 0.368563852},
		{"500K 3MPa", 500, 3, 0.120241800e-2, 0.975542239e3, 0.258041912e1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := region1(tt.p, tt.t)
			if !relClose(got.v, tt.v, 1e-8) {
				t.Errorf("v = %.9e, want %.9e", got.v, tt.v)
			}
			if !relClose(got.h, tt.h, 1e-8) {
				t.Errorf("h = %.9e, want %.9e", got.h, tt.h)
			}
			if !relClose(got.s, tt.s, 1e-8) {
				t.Errorf("s = %.9e, want %.9e", got.s, tt.s)
			}
		})
	}
}

func TestRegion2VerificationValues(t *testing.T) {
	tests := []struct {
		name    string
		t, p    float64
		v, h, s float64
	}{
		{"300K 0.0035MPa", 300, 0.0035, 0.394913866e2, 0.254991145e4, 0.852238967e1},
		{"700K 0.0035MPa", 700, 0.0035, 0.923015898e2, 0.333568375e4, 0.101749996e2},
		{"700K 30MPa", 700, 30, 0.542946619e-2, 0.263149474e4, 0.517540298e1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := region2(tt.p, tt.t)
			if !relClose(got.v, tt.v, 1e-8) {
				t.Errorf("v = %.9e, want %.9e", got.v, tt.v)
			}
			if !relClose(got.h, tt.h, 1e-8) {
				t.Errorf("h = %.9e, want %.9e", got.h, tt.h)
			}
			if !relClose(got.s, tt.s, 1e-8) {
				t.Errorf("s = %.9e, want %.9e", got.s, tt.s)
			}
		})
	}
}

func TestSaturationPressure(t *testing.T) {
	tests := []struct {
		t    float64
		want float64
	}{
		{300, 0.353658941e-2},
		{500, 0.263889776e1},
		{600, 0.123443146e2},
	}
	for _, tt := range tests {
		if got := saturationPressure(tt.t); !relClose(got, tt.want, 1e-8) {
			t.Errorf("saturationPressure(%g) = %.9e, want %.9e", tt.t, got, tt.want)
		}
	}
}

func TestSaturationTemperature(t *testing.T) {
	tests := []struct {
		p    float64
		want float64
	}{
		{0.1, 0.372755919e3},
		{1, 0.453035632e3},
		{10, 0.584149488e3},
	}
	for _, tt := range tests {
		if got := saturationTemperature(tt.p); !relClose(got, tt.want, 1e-8) {
			t.Errorf("saturationTemperature(%g) = %.9e, want %.9e", tt.p, got, tt.want)
		}
	}
}

func TestB23Boundary(t *testing.T) {
	if got := b23Pressure(623.15); !relClose(got, 0.165291643e2, 1e-8) {
		t.Errorf("b23Pressure(623.15) = %.9e, want 1.65291643e1", got)
	}
	if got := b23Temperature(0.165291643e2); !relClose(got, 623.15, 1e-8) {
		t.Errorf("b23Temperature(16.5291643) = %.9e, want 623.15", got)
	}
	if got := b23Temperature(pMax); !relClose(got, tB23Max, 1e-5) {
		t.Errorf("b23Temperature(%g) = %.9e, want %g", pMax, got, tB23Max)
	}
	for _, p := range []float64{20, 25, 60} {
		if got := b23Pressure(b23Temperature(p)); !relClose(got, p, 1e-10) {
			t.Errorf("b23Pressure(b23Temperature(%g)) = %.12g", p, got)
		}
	}
}
