package bus

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

const connectTimeout = 10 * time.Second

type outMsg struct {
	topic   string
	payload []byte
}

// MQTT is the paho adapter. Outbound messages go through a bounded
// queue drained by one goroutine; on overflow the message is dropped
// and counted, never blocking the engine.
type MQTT struct {
	client  mqtt.Client
	out     chan outMsg
	log     zerolog.Logger
	dropped func()
}

type MQTTOptions struct {
	BrokerURL    string
	ClientID     string
	OutboundSize int
	// OnDrop is invoked for every message lost to queue overflow.
	OnDrop func()
}

// ConnectMQTT dials the broker. Failure here is fatal for the service;
// disconnects after startup are retried by the client.
func ConnectMQTT(o MQTTOptions, log zerolog.Logger) (*MQTT, error) {
	if o.OutboundSize <= 0 {
		o.OutboundSize = 4096
	}

	opts := mqtt.NewClientOptions().
		AddBroker(o.BrokerURL).
		SetClientID(o.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	m := &MQTT{
		out:     make(chan outMsg, o.OutboundSize),
		log:     log.With().Str("component", "mqtt").Logger(),
		dropped: o.OnDrop,
	}
	opts.SetOnConnectHandler(func(mqtt.Client) {
		m.log.Info().Str("broker", o.BrokerURL).Msg("connected")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		m.log.Warn().Err(err).Msg("connection lost, reconnecting")
	})

	m.client = mqtt.NewClient(opts)
	token := m.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", o.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", o.BrokerURL, err)
	}

	go m.drain()
	return m, nil
}

// Subscribe registers the inbound wildcard filters and forwards every
// message to the handler on paho's delivery goroutines.
func (m *MQTT) Subscribe(handler func(topic string, payload []byte)) error {
	filters := make(map[string]byte)
	for _, f := range SubscribeFilters() {
		filters[f] = 1
	}
	token := m.client.SubscribeMultiple(filters, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	token.Wait()
	return token.Error()
}

// Publish marshals and enqueues one message, dropping on overflow.
func (m *MQTT) Publish(topic string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		m.log.Error().Err(err).Str("topic", topic).Msg("marshal failed")
		return
	}
	select {
	case m.out <- outMsg{topic: topic, payload: data}:
	default:
		if m.dropped != nil {
			m.dropped()
		}
		m.log.Warn().Str("topic", topic).Msg("outbound queue full, message dropped")
	}
}

// Close flushes nothing: pending messages are best-effort by design.
func (m *MQTT) Close() {
	m.client.Disconnect(250)
}

func (m *MQTT) drain() {
	for msg := range m.out {
		token := m.client.Publish(msg.topic, 1, false, msg.payload)
		token.Wait()
		if err := token.Error(); err != nil {
			m.log.Warn().Err(err).Str("topic", msg.topic).Msg("publish failed")
		}
	}
}
