package mqtt

import (
	"fmt"
)

// maxPayloadSize bounds a published run. A result with its four states is
// a few kilobytes.
const maxPayloadSize = 1 << 20

// Publish sends payload to topic and waits for the broker to acknowledge
// it. cycle.MQTTSink calls it with retained set so a dashboard that
// subscribes after a run still receives it.
//
// Parameters:
//   - topic: a concrete topic; wildcards are rejected
//   - payload: message body, at most 1 MiB
//   - qos: 0, 1 or 2
//   - retained: whether the broker keeps the message for late subscribers
//
// Returns:
//   - error: ErrInvalidTopic, ErrInvalidQoS, ErrNotConnected or ErrPublishFailed
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if err := checkTopic(topic); err != nil {
		return err
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: %s: payload of %d bytes exceeds %d", ErrPublishFailed, topic, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return waitFor(c.client.Publish(topic, qos, retained, payload), ErrPublishFailed, topic)
}
