package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTPublisher publishes events to <prefix>points and <prefix>events.
type MQTTPublisher struct {
	client      mqtt.Client
	pointsTopic string
	eventsTopic string
}

// NewMQTTPublisher connects to the broker and returns a publisher, or an
// error when the initial connect fails.
func NewMQTTPublisher(brokerAddr, topicPrefix, clientID string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().AddBroker(brokerAddr).SetClientID(clientID)
	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", brokerAddr, token.Error())
	}
	return &MQTTPublisher{
		client:      c,
		pointsTopic: topicPrefix + "points",
		eventsTopic: topicPrefix + "events",
	}, nil
}

func (p *MQTTPublisher) PublishPoint(_ context.Context, ev PointEvent) error {
	return p.publish(p.pointsTopic, ev)
}

func (p *MQTTPublisher) PublishTransition(_ context.Context, ev TransitionEvent) error {
	return p.publish(p.eventsTopic, ev)
}

func (p *MQTTPublisher) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	token := p.client.Publish(topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
