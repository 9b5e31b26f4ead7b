package cycle

import (
	"fmt"
	"math"

	"github.com/nerrad567/rankine-core/internal/device"
	"github.com/nerrad567/rankine-core/internal/steam"
)

// Plant is one pump, boiler, turbine and condenser wired in a loop.
//
// A Plant is single use: build it with NewPlant, call Solve once, then
// read the devices or the Result.
type Plant struct {
	Spec      Spec
	Pump      *device.Pump
	Boiler    *device.Boiler
	Turbine   *device.Turbine
	Condenser *device.Condenser

	provider device.PropertyProvider
}

// NewPlant builds the four devices for spec and sets their parameters.
// A nil provider selects steam.IF97.
func NewPlant(spec Spec, provider device.PropertyProvider) *Plant {
	if provider == nil {
		provider = steam.IF97{}
	}
	p := &Plant{
		Spec:      spec,
		Pump:      device.NewPump(provider),
		Boiler:    device.NewBoiler(provider),
		Turbine:   device.NewTurbine(provider),
		Condenser: device.NewCondenser(provider),
		provider:  provider,
	}

	p.Pump.SetProperty(device.ParamWorkIn, spec.PumpWorkIn)
	p.Boiler.SetProperty(device.ParamHeatIn, spec.BoilerHeatIn)
	for _, d := range p.Devices() {
		d.SetProperty(device.ParamMassFlow, spec.MassFlow)
	}
	return p
}

// Devices returns the devices in flow order.
func (p *Plant) Devices() []device.Device {
	return []device.Device{p.Pump, p.Boiler, p.Turbine, p.Condenser}
}

// Solve runs the devices in flow order and returns the energy balance.
// The returned Result has no ID or timestamp; Service assigns those.
func (p *Plant) Solve() (*Result, error) {
	if err := p.Spec.Validate(); err != nil {
		return nil, err
	}
	pc := p.Spec.CondenserPressure

	pumpIn, err := p.provider.State(steam.P(pc), steam.X(0))
	if err != nil {
		return nil, fmt.Errorf("pump inlet: %w", err)
	}
	p.Pump.SetInletState(pumpIn)
	pumpOut, err := p.Pump.SolveForOutlet()
	if err != nil {
		return nil, err
	}

	p.Boiler.SetInletState(pumpOut)
	boilerOut, err := p.Boiler.SolveForOutlet()
	if err != nil {
		return nil, err
	}

	turbineOut, err := p.provider.State(steam.P(pc), steam.S(boilerOut.S()))
	if err != nil {
		return nil, fmt.Errorf("turbine outlet: %w", err)
	}
	p.Turbine.SetInletState(boilerOut)
	p.Turbine.SetOutletState(turbineOut)
	wTurbine, err := p.Turbine.SolveForWorkOut()
	if err != nil {
		return nil, err
	}

	p.Condenser.SetInletState(turbineOut)
	p.Condenser.SetOutletState(pumpIn)
	qOut, err := p.Condenser.SolveForHeatOut()
	if err != nil {
		return nil, err
	}

	eff, err := Efficiency(wTurbine, p.Spec.PumpWorkIn, p.Spec.BoilerHeatIn)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Spec: p.Spec,
		States: []StatePoint{
			NewStatePoint(PointPumpInlet, pumpIn),
			NewStatePoint(PointBoilerInlet, pumpOut),
			NewStatePoint(PointTurbineInlet, boilerOut),
			NewStatePoint(PointCondenserInlet, turbineOut),
		},
		PumpWorkIn:       p.Spec.PumpWorkIn,
		BoilerHeatIn:     p.Spec.BoilerHeatIn,
		TurbineWorkOut:   wTurbine,
		CondenserHeatOut: qOut,
		NetWork:          wTurbine - p.Spec.PumpWorkIn,
		Efficiency:       eff,
		HeatBalanceError: (wTurbine + qOut) - (p.Spec.BoilerHeatIn + p.Spec.PumpWorkIn),
	}
	if wTurbine != 0 {
		res.BackWorkRatio = p.Spec.PumpWorkIn / wTurbine
	}
	return res, nil
}

// Efficiency returns the thermal efficiency (wTurbine - wPump) / qBoiler.
func Efficiency(wTurbine, wPump, qBoiler float64) (float64, error) {
	if math.IsNaN(qBoiler) || math.IsInf(qBoiler, 0) || qBoiler <= 0 {
		return 0, fmt.Errorf("%w: boiler heat %v must be positive", ErrInvalidSpec, qBoiler)
	}
	return (wTurbine - wPump) / qBoiler, nil
}
