package telemetry

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes events to two Kafka topics, keyed by device so a
// device's stream stays on one partition.
type KafkaPublisher struct {
	points *kafka.Writer
	events *kafka.Writer
}

// NewKafkaPublisher builds writers against the given bootstrap brokers.
func NewKafkaPublisher(brokers []string, pointsTopic, eventsTopic string) *KafkaPublisher {
	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		}
	}
	return &KafkaPublisher{
		points: newWriter(pointsTopic),
		events: newWriter(eventsTopic),
	}
}

func (p *KafkaPublisher) PublishPoint(ctx context.Context, ev PointEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.points.WriteMessages(ctx, kafka.Message{Key: []byte(ev.DeviceID), Value: b})
}

func (p *KafkaPublisher) PublishTransition(ctx context.Context, ev TransitionEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.events.WriteMessages(ctx, kafka.Message{Key: []byte(ev.DeviceID), Value: b})
}

func (p *KafkaPublisher) Close() error {
	err := p.points.Close()
	if err2 := p.events.Close(); err == nil {
		err = err2
	}
	return err
}
