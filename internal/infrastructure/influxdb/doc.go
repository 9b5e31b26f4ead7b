// Package influxdb writes solved-run metrics to InfluxDB v2.
//
// It wraps influxdb-client-go v2 with batched non-blocking writes. Two
// measurements are written per run:
//
//	rankine_cycle   tags: run_id, source          fields: net_work_kw, efficiency, back_work_ratio
//	rankine_device  tags: run_id, device, source  fields: rate_kw
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB, logger)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	svc.AddSink(cycle.NewMetricsSink(client))
//
// Rejected batches are logged through the Logger given to Connect and
// counted by Failures. Connection and health check errors are returned
// directly.
package influxdb
