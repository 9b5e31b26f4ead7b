// Package device models the four pieces of equipment in a Rankine cycle.
//
// Every device holds an inlet state, an outlet state and a small set of
// typed parameters. A solve fills in whichever half the device is able to
// derive from an energy balance:
//
//	┌───────────┬─────────────────────┬──────────────────────────────────┐
//	│ Device    │ Known               │ Solves                           │
//	├───────────┼─────────────────────┼──────────────────────────────────┤
//	│ Pump      │ inlet, W_in, mdot   │ outlet (h_in + W_in/mdot, s_in)  │
//	│ Boiler    │ inlet, Q_in, mdot   │ outlet (p_in, h_in + Q_in/mdot)  │
//	│ Turbine   │ inlet, outlet, mdot │ W_out = (h_in - h_out)·mdot      │
//	│ Condenser │ inlet, outlet, mdot │ Q_out = (h_in - h_out)·mdot      │
//	└───────────┴─────────────────────┴──────────────────────────────────┘
//
// Pump and Boiler implement OutletSolver; Turbine and Condenser implement
// EnergySolver. No device supports both directions.
//
// # Usage
//
//	inlet, _ := steam.New(steam.P(0.01), steam.X(0))
//
//	pump := device.NewPump(nil) // nil selects steam.IF97
//	pump.SetInletState(inlet)
//	pump.WorkIn = device.Set(250)
//	pump.MassFlow = device.Set(150)
//
//	out, err := pump.SolveForOutlet()
//	if errors.Is(err, device.ErrMissingInput) {
//	    // a state or parameter was never set
//	}
//
// Parameters can also be set by name, which is how external drivers and
// request payloads address them:
//
//	pump.SetProperty("W_in", 250)
//	pump.SetProperty("mdot", 150)
//
// # Thread Safety
//
// Devices have no internal locking. A device may be used from any goroutine
// as long as no two goroutines mutate it at the same time. States are
// immutable and may be shared freely, so the outlet of one device can be
// handed to the next as its inlet.
package device
