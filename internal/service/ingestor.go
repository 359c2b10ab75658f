// Package service implements the ingestion pipeline: verify the delivery
// signature, parse and classify the event, write the normalized record
// through a connector, and optionally republish to the mirror.
package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/telhawk-systems/resend-sink/internal/config"
	"github.com/telhawk-systems/resend-sink/internal/event"
	"github.com/telhawk-systems/resend-sink/internal/logging"
	"github.com/telhawk-systems/resend-sink/internal/metrics"
	"github.com/telhawk-systems/resend-sink/internal/mirror"
	"github.com/telhawk-systems/resend-sink/internal/store"
	"github.com/telhawk-systems/resend-sink/pkg/svix"
)

// ErrNotConfigured is returned when ingestion is attempted without a
// signing secret. Verification is never skipped.
var ErrNotConfigured = errors.New("service: webhook secret not configured")

// Result reports what happened to a delivery.
type Result struct {
	SvixID    string
	EventType string
	Kind      event.Kind
	Duplicate bool
}

// Ingestor drives one delivery through the pipeline for a given connector.
type Ingestor struct {
	webhook *svix.Webhook
	mirror  mirror.Publisher
	logger  *logging.Logger
}

// NewIngestor builds the pipeline from the webhook section of the
// configuration. pub may be nil when mirroring is disabled.
func NewIngestor(cfg config.WebhookConfig, pub mirror.Publisher, logger *logging.Logger) (*Ingestor, error) {
	if logger == nil {
		logger = logging.Default()
	}
	ing := &Ingestor{mirror: pub, logger: logger}

	if cfg.Secret != "" {
		var (
			wh  *svix.Webhook
			err error
		)
		if cfg.Tolerance > 0 {
			wh, err = svix.NewWebhookWithTolerance(cfg.Secret, cfg.Tolerance)
		} else {
			wh, err = svix.NewWebhook(cfg.Secret)
		}
		if err != nil {
			return nil, err
		}
		ing.webhook = wh
	}

	return ing, nil
}

// Ingest verifies, parses, and persists one delivery through conn. The
// raw body and headers come straight from the HTTP request. A duplicate
// delivery is a success with Result.Duplicate set.
func (i *Ingestor) Ingest(ctx context.Context, conn store.Connector, body []byte, headers http.Header) (*Result, error) {
	backend := conn.Name()

	if i.webhook == nil {
		metrics.DeliveriesTotal.WithLabelValues(backend, metrics.OutcomeFailed).Inc()
		return nil, ErrNotConfigured
	}

	svixID := headers.Get(svix.HeaderID)

	if err := i.webhook.Verify(body, headers); err != nil {
		metrics.VerificationFailures.Inc()
		metrics.DeliveriesTotal.WithLabelValues(backend, metrics.OutcomeUnauthorized).Inc()
		i.logger.WarnContext(ctx, "signature verification failed",
			logging.Backend(backend),
			logging.SvixID(svixID),
			logging.Error(err))
		return nil, err
	}

	ev, err := event.Parse(body)
	if err != nil {
		metrics.DeliveriesTotal.WithLabelValues(backend, metrics.OutcomeRejected).Inc()
		i.logger.WarnContext(ctx, "event rejected",
			logging.Backend(backend),
			logging.SvixID(svixID),
			logging.Error(err))
		return nil, err
	}

	res := &Result{SvixID: svixID, EventType: ev.Type, Kind: ev.Kind}

	dup, err := i.write(ctx, conn, ev, svixID)
	if err != nil {
		metrics.WriteErrors.WithLabelValues(backend).Inc()
		metrics.DeliveriesTotal.WithLabelValues(backend, metrics.OutcomeFailed).Inc()
		i.logger.ErrorContext(ctx, "store write failed",
			logging.Backend(backend),
			logging.SvixID(svixID),
			logging.EventType(ev.Type),
			logging.Error(err))
		return nil, err
	}
	res.Duplicate = dup

	if dup {
		metrics.DuplicatesTotal.WithLabelValues(backend).Inc()
		metrics.DeliveriesTotal.WithLabelValues(backend, metrics.OutcomeDuplicate).Inc()
		i.logger.InfoContext(ctx, "duplicate delivery suppressed",
			logging.Backend(backend),
			logging.SvixID(svixID),
			logging.EventType(ev.Type))
		return res, nil
	}

	metrics.DeliveriesTotal.WithLabelValues(backend, metrics.OutcomeWritten).Inc()
	i.logger.InfoContext(ctx, "event written",
		logging.Backend(backend),
		logging.SvixID(svixID),
		logging.EventType(ev.Type))

	i.republish(ctx, backend, ev, svixID, body)

	return res, nil
}

func (i *Ingestor) write(ctx context.Context, conn store.Connector, ev *event.Event, svixID string) (bool, error) {
	backend := conn.Name()

	client, err := conn.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		if err := client.Release(ctx); err != nil {
			i.logger.WarnContext(ctx, "connector release failed",
				logging.Backend(backend),
				logging.Error(err))
		}
	}()

	start := time.Now()
	var dup bool
	switch ev.Kind {
	case event.KindEmail:
		dup, err = client.WriteEmail(ctx, event.NormalizeEmail(ev), svixID)
	case event.KindContact:
		dup, err = client.WriteContact(ctx, event.NormalizeContact(ev), svixID)
	case event.KindDomain:
		dup, err = client.WriteDomain(ctx, event.NormalizeDomain(ev), svixID)
	}
	metrics.WriteDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())

	return dup, err
}

// republish mirrors an accepted first delivery. Failures are logged and
// counted but never surfaced to the webhook provider.
func (i *Ingestor) republish(ctx context.Context, backend string, ev *event.Event, svixID string, body []byte) {
	if i.mirror == nil {
		return
	}

	err := i.mirror.Publish(ctx, mirror.Envelope{
		SvixID:     svixID,
		EventType:  ev.Type,
		Kind:       ev.Kind.String(),
		Backend:    backend,
		ReceivedAt: time.Now().UTC(),
		Payload:    body,
	})
	if err != nil {
		metrics.MirrorErrors.Inc()
		i.logger.WarnContext(ctx, "mirror publish failed",
			logging.Backend(backend),
			logging.SvixID(svixID),
			logging.Error(err))
		return
	}
	metrics.MirrorPublished.Inc()
}
