// Package mirror republishes accepted webhook events to a message broker
// so downstream consumers can react to deliveries without polling the
// backing stores. Mirroring is best effort: a publish failure never fails
// the ingestion request.
package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/telhawk-systems/resend-sink/internal/config"
)

// Envelope is the message shape published to the broker. Payload carries
// the raw webhook body as received, after signature verification.
type Envelope struct {
	SvixID     string          `json:"svix_id"`
	EventType  string          `json:"event_type"`
	Kind       string          `json:"kind"`
	Backend    string          `json:"backend"`
	ReceivedAt time.Time       `json:"received_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher delivers envelopes to a broker.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
	Close() error
}

// New builds the publisher selected by cfg.Backend. An empty backend
// disables mirroring and returns (nil, nil).
func New(cfg config.MirrorConfig) (Publisher, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "nats":
		return NewNATS(cfg.NATS)
	case "kafka":
		return NewKafka(cfg.Kafka)
	default:
		return nil, fmt.Errorf("unknown mirror backend %q", cfg.Backend)
	}
}
