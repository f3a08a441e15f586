package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Message is one response captured from the player's res topics.
type Message struct {
	Topic   string
	Payload []byte
}

// Player is one simulated client on the bus. It subscribes to its own
// member and room response topics and buffers everything it receives.
type Player struct {
	ID   string
	cli  mqtt.Client
	msgs chan Message
}

func Connect(broker, id string) (*Player, error) {
	p := &Player{ID: id, msgs: make(chan Message, 256)}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("loadgen-" + id).
		SetCleanSession(true).
		SetConnectTimeout(10 * time.Second)
	p.cli = mqtt.NewClient(opts)

	token := p.cli.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", id, err)
	}

	filters := map[string]byte{
		fmt.Sprintf("member/%s/res/#", id): 1,
		fmt.Sprintf("room/%s/res/#", id):   1,
	}
	sub := p.cli.SubscribeMultiple(filters, func(_ mqtt.Client, msg mqtt.Message) {
		select {
		case p.msgs <- Message{Topic: msg.Topic(), Payload: msg.Payload()}:
		default:
		}
	})
	sub.Wait()
	if err := sub.Error(); err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", id, err)
	}
	return p, nil
}

func (p *Player) Close() {
	p.cli.Disconnect(250)
}

// Send publishes a JSON payload on one of the player's send topics.
func (p *Player) Send(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	token := p.cli.Publish(topic, 1, false, data)
	token.Wait()
	return token.Error()
}

// WaitFor blocks until a response whose topic ends in the action
// arrives, or the timeout expires.
func (p *Player) WaitFor(action string, timeout time.Duration) (Message, bool) {
	deadline := time.After(timeout)
	for {
		select {
		case msg := <-p.msgs:
			if strings.HasSuffix(msg.Topic, "/"+action) {
				return msg, true
			}
		case <-deadline:
			return Message{}, false
		}
	}
}
