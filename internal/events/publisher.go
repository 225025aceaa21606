// internal/events/publisher.go
package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/soukhub/marketplace-backend/internal/config"
)

// Publisher pushes order events to Kafka. A nil Publisher (no brokers
// configured) is valid and drops everything, so callers never need to
// branch on whether eventing is enabled.
type Publisher struct {
	w *kafka.Writer
}

func NewPublisher(cfg config.KafkaConfig) *Publisher {
	if len(cfg.Brokers) == 0 {
		return nil
	}

	return &Publisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.OrderTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true, // fire-and-forget; the completion callback logs failures
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					logrus.WithError(err).Error("Failed to publish order events")
				}
			},
		},
	}
}

// Publish keys the message by order id so one order's events stay in
// one partition, preserving their relative order.
func (p *Publisher) Publish(ctx context.Context, key string, env Envelope) {
	if p == nil {
		return
	}

	value, err := json.Marshal(env)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal order event")
		return
	}

	if err := p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	}); err != nil {
		logrus.WithError(err).Error("Failed to enqueue order event")
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.w.Close()
}
