package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
)

// EnvelopeHandler processes one decoded event. key is the partition key the
// producer wrote: the user id for cart events, the username for account
// events.
type EnvelopeHandler func(ctx context.Context, key string, envelope Envelope) error

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader}
}

// Consume reads messages until the context is cancelled, decoding each into
// an Envelope before dispatch. A message that does not decode is logged and
// skipped so one poison message cannot wedge the consumer group.
func (c *Consumer) Consume(ctx context.Context, handler EnvelopeHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("[Kafka] Error reading message: %v", err)
				continue
			}

			envelope, err := decodeEnvelope(msg.Value)
			if err != nil {
				log.Printf("[Kafka] Skipping undecodable message at offset %d: %v", msg.Offset, err)
				continue
			}

			if err := handler(ctx, string(msg.Key), envelope); err != nil {
				log.Printf("[Kafka] Error handling %s event: %v", envelope.EventType, err)
			}
		}
	}
}

func decodeEnvelope(value []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(value, &envelope); err != nil {
		return Envelope{}, err
	}
	return envelope, nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
