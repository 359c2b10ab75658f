package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/resend-sink/internal/store"
)

func TestHealth(t *testing.T) {
	h := newTestHandler(t, testSecret, nil)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReady_ListsBackends(t *testing.T) {
	h := newTestHandler(t, testSecret, map[string]store.Connector{
		"sqlite": newMemConnector("sqlite"),
		"redis":  newMemConnector("redis"),
	})

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status   string   `json:"status"`
		Backends []string `json:"backends"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, []string{"redis", "sqlite"}, body.Backends)
}
