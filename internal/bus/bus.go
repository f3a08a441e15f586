// Package bus defines the message-bus surface: the topic grammar, the
// JSON payloads and the MQTT adapter. The engine only ever sees the
// Publisher interface and parsed routes.
package bus

// Publisher delivers one outbound message. Implementations must not
// block the caller; overflow is dropped and counted (the slow-tick
// reminder covers the only message whose loss is not self-correcting).
type Publisher interface {
	Publish(topic string, payload any)
}

// Fanout tees every message to multiple publishers.
type Fanout []Publisher

func (f Fanout) Publish(topic string, payload any) {
	for _, p := range f {
		p.Publish(topic, payload)
	}
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(topic string, payload any)

func (fn PublisherFunc) Publish(topic string, payload any) { fn(topic, payload) }
