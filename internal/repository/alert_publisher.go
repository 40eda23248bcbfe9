package repository

import (
	"context"

	"TradeFlow/internal/domain/models"
	pkgkafka "TradeFlow/pkg/kafka"
)

// KafkaAlertPublisher pushes high-confidence signals to a Kafka topic,
// keyed by asset so per-symbol ordering is preserved.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAlertPublisher creates an alert publisher.
func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

// Publish sends all signals as one batch.
func (p *KafkaAlertPublisher) Publish(ctx context.Context, signals []models.Signal) error {
	if len(signals) == 0 {
		return nil
	}

	msgs := make([]pkgkafka.Message, 0, len(signals))
	for _, s := range signals {
		msgs = append(msgs, pkgkafka.Message{
			Key:   []byte(s.Asset),
			Value: s,
		})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

// Close closes the underlying producer.
func (p *KafkaAlertPublisher) Close() error {
	return p.producer.Close()
}
