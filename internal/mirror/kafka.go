package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/telhawk-systems/resend-sink/internal/config"
)

// Kafka publishes envelopes to a Kafka topic, keyed by svix_id so
// redeliveries of the same message land on the same partition.
type Kafka struct {
	writer *kafka.Writer
}

func NewKafka(cfg config.KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka mirror: no brokers configured")
	}
	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 5 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}, nil
}

func (k *Kafka) Publish(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(env.SvixID),
		Value: data,
	})
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
