package handlers

import (
	"net/http"

	"github.com/telhawk-systems/resend-sink/internal/httputil"
)

func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (h *WebhookHandler) Ready(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"backends": h.Backends(),
	})
}
