package cycle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/rankine-core/internal/device"
)

// MQTTClient is the interface for publishing results to the broker.
type MQTTClient interface {
	// Publish sends a message to the specified MQTT topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// WSHub is the interface for broadcasting WebSocket events.
type WSHub interface {
	// Broadcast sends an event to all clients subscribed to the given channel.
	Broadcast(channel string, payload any)
}

// MetricsWriter is the interface for writing run metrics to a time-series
// store.
type MetricsWriter interface {
	WriteCycleMetrics(runID string, netWorkKW, efficiency, backWorkRatio float64, ts time.Time)
	WriteDeviceEnergy(runID, deviceKind string, rateKW float64, ts time.Time)
}

// ChannelSolved is the WebSocket channel that carries solved runs.
const ChannelSolved = "cycle.solved"

// MQTTSink publishes each run as retained JSON.
type MQTTSink struct {
	client MQTTClient
	topic  func(runID string) string
	qos    byte
}

// NewMQTTSink returns a sink publishing to topic(runID) at the given QoS.
func NewMQTTSink(client MQTTClient, topic func(runID string) string, qos byte) *MQTTSink {
	return &MQTTSink{client: client, topic: topic, qos: qos}
}

// Name implements Sink.
func (s *MQTTSink) Name() string { return "mqtt" }

// Notify implements Sink.
func (s *MQTTSink) Notify(_ context.Context, res *Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshalling run: %w", err)
	}
	if err := s.client.Publish(s.topic(res.ID), payload, s.qos, true); err != nil {
		return fmt.Errorf("publishing run %s: %w", res.ID, err)
	}
	return nil
}

// HubSink broadcasts each run on ChannelSolved.
type HubSink struct {
	hub WSHub
}

// NewHubSink returns a sink broadcasting through hub.
func NewHubSink(hub WSHub) *HubSink {
	return &HubSink{hub: hub}
}

// Name implements Sink.
func (s *HubSink) Name() string { return "websocket" }

// Notify implements Sink.
func (s *HubSink) Notify(_ context.Context, res *Result) error {
	s.hub.Broadcast(ChannelSolved, res)
	return nil
}

// MetricsSink writes the headline numbers and the per-device energy rates.
type MetricsSink struct {
	writer MetricsWriter
}

// NewMetricsSink returns a sink writing through w.
func NewMetricsSink(w MetricsWriter) *MetricsSink {
	return &MetricsSink{writer: w}
}

// Name implements Sink.
func (s *MetricsSink) Name() string { return "influxdb" }

// Notify implements Sink.
func (s *MetricsSink) Notify(_ context.Context, res *Result) error {
	s.writer.WriteCycleMetrics(res.ID, res.NetWork, res.Efficiency, res.BackWorkRatio, res.CreatedAt)
	s.writer.WriteDeviceEnergy(res.ID, string(device.KindPump), res.PumpWorkIn, res.CreatedAt)
	s.writer.WriteDeviceEnergy(res.ID, string(device.KindBoiler), res.BoilerHeatIn, res.CreatedAt)
	s.writer.WriteDeviceEnergy(res.ID, string(device.KindTurbine), res.TurbineWorkOut, res.CreatedAt)
	s.writer.WriteDeviceEnergy(res.ID, string(device.KindCondenser), res.CondenserHeatOut, res.CreatedAt)
	return nil
}
