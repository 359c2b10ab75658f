package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/telhawk-systems/resend-sink/internal/config"
)

// NATS publishes envelopes to a NATS subject.
type NATS struct {
	conn    *nats.Conn
	subject string
}

func NewNATS(cfg config.NATSConfig) (*NATS, error) {
	opts := []nats.Option{
		nats.Name("resend-sink"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.Timeout(5 * time.Second),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATS{conn: conn, subject: cfg.Subject}, nil
}

func (n *NATS) Publish(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return n.conn.Publish(n.subject, data)
}

func (n *NATS) Close() error {
	n.conn.Close()
	return nil
}
