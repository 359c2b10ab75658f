package handlers

import (
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/telhawk-systems/resend-sink/internal/event"
	"github.com/telhawk-systems/resend-sink/internal/httputil"
	"github.com/telhawk-systems/resend-sink/internal/service"
	"github.com/telhawk-systems/resend-sink/internal/store"
	"github.com/telhawk-systems/resend-sink/pkg/svix"
)

// WebhookHandler serves the per-backend ingestion routes. Each enabled
// connector is mounted on its own path; the handler looks the connector
// up by the path's trailing segment.
type WebhookHandler struct {
	ingestor     *service.Ingestor
	connectors   map[string]store.Connector
	maxBodyBytes int64
}

func NewWebhookHandler(ing *service.Ingestor, connectors map[string]store.Connector, maxBodyBytes int64) *WebhookHandler {
	return &WebhookHandler{
		ingestor:     ing,
		connectors:   connectors,
		maxBodyBytes: maxBodyBytes,
	}
}

// Backends returns the names of the mounted connectors.
func (h *WebhookHandler) Backends() []string {
	names := make([]string, 0, len(h.connectors))
	for name := range h.connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HandleWebhook ingests one delivery for the backend named in the route
// pattern's {backend} segment.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	conn, ok := h.connectors[r.PathValue("backend")]
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "unknown backend")
		return
	}

	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	payload, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		httputil.WriteError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	if _, err := h.ingestor.Ingest(r.Context(), conn, payload, r.Header); err != nil {
		status, msg := mapIngestError(err)
		httputil.WriteError(w, status, msg)
		return
	}

	// Duplicates acknowledge identically to first deliveries so the
	// provider stops retrying.
	httputil.WriteReceived(w)
}

// mapIngestError translates pipeline errors onto the response contract:
// absent headers are a malformed request, a failed signature check is an
// authentication failure, unparseable or unrecognized events are bad
// requests, and everything else is a server-side fault.
func mapIngestError(err error) (int, string) {
	switch {
	case errors.Is(err, svix.ErrMissingHeaders):
		return http.StatusBadRequest, "missing svix headers"
	case errors.Is(err, svix.ErrNoMatchingSignature),
		errors.Is(err, svix.ErrTimestampTolerance):
		return http.StatusUnauthorized, "signature verification failed"
	case errors.Is(err, event.ErrUnknownEventType):
		return http.StatusBadRequest, "unknown event type"
	case errors.Is(err, event.ErrMalformedEvent):
		return http.StatusBadRequest, "malformed event payload"
	default:
		return http.StatusInternalServerError, "failed to process event"
	}
}
