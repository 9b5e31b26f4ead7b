package cycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/rankine-core/internal/device"
	"github.com/nerrad567/rankine-core/internal/steam"
)

// Spec holds the known quantities of a run.
type Spec struct {
	// MassFlow is the working fluid mass flow rate in kg/s.
	MassFlow float64 `json:"mass_flow" yaml:"mass_flow"`

	// PumpWorkIn is the pump shaft work in kW.
	PumpWorkIn float64 `json:"pump_work_in" yaml:"pump_work_in"`

	// BoilerHeatIn is the boiler heat input in kW.
	BoilerHeatIn float64 `json:"boiler_heat_in" yaml:"boiler_heat_in"`

	// CondenserPressure is the low-side pressure in MPa. The pump inlet is
	// saturated liquid at this pressure.
	CondenserPressure float64 `json:"condenser_pressure" yaml:"condenser_pressure"`
}

// Reference plant parameters.
const (
	DefaultMassFlow          = 150.0    // kg/s
	DefaultPumpWorkIn        = 250.0    // kW
	DefaultBoilerHeatIn      = 450000.0 // kW
	DefaultCondenserPressure = 0.01     // MPa
)

// DefaultSpec returns the reference plant.
func DefaultSpec() Spec {
	return Spec{
		MassFlow:          DefaultMassFlow,
		PumpWorkIn:        DefaultPumpWorkIn,
		BoilerHeatIn:      DefaultBoilerHeatIn,
		CondenserPressure: DefaultCondenserPressure,
	}
}

// Validate checks every field and reports all problems at once. The
// returned error wraps ErrInvalidSpec.
func (s Spec) Validate() error {
	var errs []error

	if err := device.ValidateMassFlow(s.MassFlow); err != nil {
		errs = append(errs, err)
	}
	if err := device.ValidateEnergyRate(device.ParamWorkIn, s.PumpWorkIn); err != nil {
		errs = append(errs, err)
	}
	if err := device.ValidateEnergyRate(device.ParamHeatIn, s.BoilerHeatIn); err != nil {
		errs = append(errs, err)
	} else if s.BoilerHeatIn == 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", device.ParamHeatIn))
	}
	if _, err := steam.SaturationTemperature(s.CondenserPressure); err != nil {
		errs = append(errs, fmt.Errorf("condenser pressure %g MPa: %w", s.CondenserPressure, err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSpec, errors.Join(errs...))
	}
	return nil
}

// Point labels, in flow order.
const (
	PointPumpInlet      = "pump_inlet"
	PointBoilerInlet    = "boiler_inlet"
	PointTurbineInlet   = "turbine_inlet"
	PointCondenserInlet = "condenser_inlet"
)

// StatePoint is a serialisable snapshot of a steam.State.
type StatePoint struct {
	Label       string      `json:"label,omitempty"`
	Pressure    float64     `json:"pressure"`    // MPa
	Temperature float64     `json:"temperature"` // K
	Enthalpy    float64     `json:"enthalpy"`    // kJ/kg
	Entropy     float64     `json:"entropy"`     // kJ/(kg·K)
	Volume      float64     `json:"volume"`      // m³/kg
	Quality     *float64    `json:"quality,omitempty"`
	Phase       steam.Phase `json:"phase"`
}

// NewStatePoint copies the properties of st.
func NewStatePoint(label string, st *steam.State) StatePoint {
	sp := StatePoint{
		Label:       label,
		Pressure:    st.P(),
		Temperature: st.T(),
		Enthalpy:    st.H(),
		Entropy:     st.S(),
		Volume:      st.V(),
		Phase:       st.Phase(),
	}
	if x, ok := st.Quality(); ok {
		sp.Quality = &x
	}
	return sp
}

// Result is a solved run.
type Result struct {
	ID        string       `json:"id"`
	Spec      Spec         `json:"spec"`
	States    []StatePoint `json:"states"`
	CreatedAt time.Time    `json:"created_at"`

	// Energy rates in kW.
	PumpWorkIn       float64 `json:"pump_work_in"`
	BoilerHeatIn     float64 `json:"boiler_heat_in"`
	TurbineWorkOut   float64 `json:"turbine_work_out"`
	CondenserHeatOut float64 `json:"condenser_heat_out"`
	NetWork          float64 `json:"net_work"`

	// Efficiency is (W_turbine - W_pump) / Q_boiler.
	Efficiency float64 `json:"efficiency"`

	// BackWorkRatio is W_pump / W_turbine.
	BackWorkRatio float64 `json:"back_work_ratio"`

	// HeatBalanceError is (W_turbine + Q_out) - (Q_in + W_pump). It is zero
	// up to rounding for a closed loop.
	HeatBalanceError float64 `json:"heat_balance_error"`
}

// Point returns the state point with the given label.
func (r *Result) Point(label string) (StatePoint, bool) {
	for _, sp := range r.States {
		if sp.Label == label {
			return sp, true
		}
	}
	return StatePoint{}, false
}
