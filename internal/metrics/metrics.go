package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Delivery pipeline metrics
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resend_sink_deliveries_total",
			Help: "Total number of webhook deliveries received",
		},
		[]string{"backend", "outcome"},
	)

	VerificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resend_sink_verification_failures_total",
			Help: "Total number of deliveries rejected during signature verification",
		},
	)

	DuplicatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resend_sink_duplicates_total",
			Help: "Total number of redelivered events suppressed as idempotent no-ops",
		},
		[]string{"backend"},
	)

	// Storage metrics
	WriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resend_sink_write_duration_seconds",
			Help:    "Duration of store write operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	WriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resend_sink_write_errors_total",
			Help: "Total number of failed store writes",
		},
		[]string{"backend"},
	)

	// Mirror metrics
	MirrorPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resend_sink_mirror_published_total",
			Help: "Total number of accepted events published to the mirror",
		},
	)

	MirrorErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resend_sink_mirror_errors_total",
			Help: "Total number of mirror publish failures",
		},
	)
)

// Outcome labels for DeliveriesTotal.
const (
	OutcomeWritten      = "written"
	OutcomeDuplicate    = "duplicate"
	OutcomeRejected     = "rejected"
	OutcomeUnauthorized = "unauthorized"
	OutcomeFailed       = "failed"
)
