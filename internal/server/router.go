package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/telhawk-systems/resend-sink/internal/handlers"
	"github.com/telhawk-systems/resend-sink/internal/middleware"
)

// NewRouter constructs a ServeMux with the ingestion routes registered.
// Each enabled connector is reachable at /webhooks/{backend}.
func NewRouter(h *handlers.WebhookHandler) http.Handler {
	mux := http.NewServeMux()

	// Per-backend ingestion endpoints
	mux.HandleFunc("POST /webhooks/{backend}", h.HandleWebhook)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
