// Package mqtt connects the solver to an MQTT broker.
//
// This package manages:
//   - Connection with auto-reconnect and subscription restore
//   - Publishing solved runs as retained messages
//   - Receiving solve requests on rankine/request/cycle
//   - Last Will and Testament (LWT) on rankine/system/status
//
// # Architecture
//
//	request client ──► rankine/request/cycle ──► cycle.Service.HandleRequest
//	                                                  │
//	dashboards ◄── rankine/cycle/{id}/result ◄── cycle.MQTTSink
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	svc.AddSink(cycle.NewMQTTSink(client, mqtt.Topics{}.CycleResult, byte(cfg.MQTT.QoS)))
//	err = client.Subscribe(mqtt.Topics{}.CycleRequest(), 1, svc.HandleRequest)
//
// Handlers run on paho's goroutines. A handler panic is recovered and logged
// through the Logger set with SetLogger.
package mqtt
