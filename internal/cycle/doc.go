// Package cycle drives a simple Rankine cycle built from the four devices
// in package device.
//
// A run takes a Spec (mass flow, pump work, boiler heat, condenser
// pressure), wires the devices in flow order and solves them:
//
//	   ┌──────── 1 ◀───────────────┐
//	   ▼                           │
//	 Pump ──2──▶ Boiler ──3──▶ Turbine ──4──▶ Condenser
//	 W_in         Q_in          W_out          Q_out
//
//	1  saturated liquid at the condenser pressure (pump inlet)
//	2  pump outlet, isentropic
//	3  boiler outlet, at pump outlet pressure
//	4  turbine outlet, condenser pressure at the turbine inlet entropy
//
// The condenser outlet is the pump inlet state itself, so the loop closes
// by construction.
//
// Service adds persistence and notification on top of Plant: every solved
// run is saved through a Repository and handed to each registered Sink
// (MQTT, InfluxDB, WebSocket). Sink failures are logged and never fail a
// run.
//
// # Usage
//
//	repo := cycle.NewSQLiteRepository(db.DB)
//	svc := cycle.NewService(repo, steam.IF97{}, log)
//	svc.AddSink(cycle.NewHubSink(hub))
//
//	res, err := svc.Solve(ctx, cycle.DefaultSpec())
//	fmt.Printf("efficiency %.3f\n", res.Efficiency)
package cycle
