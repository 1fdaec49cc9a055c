package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"brevosync/internal/logger"
)

// Publisher writes domain events to Kafka.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers, topic string, logger *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

// Publish marshals the event and writes it keyed by email so per-contact
// ordering is preserved within a partition.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Email),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to publish event %s: %v", event.Type, err)
		return err
	}

	p.logger.Debug("Published event %s for %s", event.Type, event.Email)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
