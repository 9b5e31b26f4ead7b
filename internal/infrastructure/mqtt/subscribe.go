package mqtt

import (
	"fmt"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Subscribe routes messages matching filter to handler. The subscription
// is replayed after every reconnect until Unsubscribe removes it.
//
// Returns:
//   - error: ErrInvalidTopic, ErrInvalidQoS, ErrNotConnected or ErrSubscribeFailed
//
// Example:
//
//	err := client.Subscribe(mqtt.Topics{}.CycleRequest(), 1, svc.HandleRequest)
func (c *Client) Subscribe(filter string, qos byte, handler MessageHandler) error {
	if err := checkFilter(filter); err != nil {
		return err
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if handler == nil {
		return fmt.Errorf("%w: %s: nil handler", ErrSubscribeFailed, filter)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	sub := subscription{filter: filter, qos: qos, handler: handler}
	if err := waitFor(c.client.Subscribe(filter, qos, c.wrapHandler(handler)), ErrSubscribeFailed, filter); err != nil {
		return err
	}

	c.subMu.Lock()
	c.subscriptions[filter] = sub
	c.subMu.Unlock()
	return nil
}

// Unsubscribe stops delivery for filter. It is called on shutdown so no
// request is accepted while the service drains. Messages already in flight
// may still reach the handler.
func (c *Client) Unsubscribe(filter string) error {
	if err := checkFilter(filter); err != nil {
		return err
	}

	c.subMu.Lock()
	delete(c.subscriptions, filter)
	c.subMu.Unlock()

	if !c.IsConnected() {
		return ErrNotConnected
	}
	return waitFor(c.client.Unsubscribe(filter), ErrUnsubscribeFailed, filter)
}

// waitFor waits for token up to defaultPublishTimeout and wraps any failure
// in sentinel.
func waitFor(token pahomqtt.Token, sentinel error, topic string) error {
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: %s: no acknowledgement after %v", sentinel, topic, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", sentinel, topic, err)
	}
	return nil
}
