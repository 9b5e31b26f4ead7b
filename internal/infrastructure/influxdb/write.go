package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	// MeasurementCycle holds the headline figures of each solved run.
	MeasurementCycle = "rankine_cycle"

	// MeasurementDevice holds one energy rate per device per run.
	MeasurementDevice = "rankine_device"
)

// WriteCycleMetrics records the headline figures of a solved run, tagged
// with its run ID and stamped with the run's creation time.
//
// Parameters:
//   - runID: Run identifier, stored as a tag
//   - netWorkKW: Turbine work less pump work (kW)
//   - efficiency: Net work over boiler heat
//   - backWorkRatio: Pump work over turbine work
//   - ts: Run creation time
func (c *Client) WriteCycleMetrics(runID string, netWorkKW, efficiency, backWorkRatio float64, ts time.Time) {
	c.write(write.NewPoint(MeasurementCycle,
		map[string]string{"run_id": runID},
		map[string]interface{}{
			"net_work_kw":     netWorkKW,
			"efficiency":      efficiency,
			"back_work_ratio": backWorkRatio,
		},
		ts,
	))
}

// WriteDeviceEnergy records the energy rate crossing one device boundary.
//
// Example:
//
//	client.WriteDeviceEnergy(res.ID, "turbine", res.TurbineWorkOut, res.CreatedAt)
func (c *Client) WriteDeviceEnergy(runID, deviceKind string, rateKW float64, ts time.Time) {
	c.write(write.NewPoint(MeasurementDevice,
		map[string]string{"run_id": runID, "device": deviceKind},
		map[string]interface{}{"rate_kw": rateKW},
		ts,
	))
}

// write queues p. Points written after Close are dropped.
func (c *Client) write(p *write.Point) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	c.writeAPI.WritePoint(p)
}
