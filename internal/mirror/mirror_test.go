package mirror

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/resend-sink/internal/config"
)

func TestNew_Disabled(t *testing.T) {
	pub, err := New(config.MirrorConfig{})
	require.NoError(t, err)
	assert.Nil(t, pub)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(config.MirrorConfig{Backend: "rabbitmq"})
	assert.Error(t, err)
}

func TestNewKafka_NoBrokers(t *testing.T) {
	_, err := NewKafka(config.KafkaConfig{Topic: "resend-events"})
	assert.Error(t, err)
}

func TestEnvelope_JSONShape(t *testing.T) {
	env := Envelope{
		SvixID:     "msg_p5jXN8AQM9LWM0D4loKWxJek",
		EventType:  "email.sent",
		Kind:       "email",
		Backend:    "postgres",
		ReceivedAt: time.Date(2024, 2, 22, 23, 41, 12, 0, time.UTC),
		Payload:    json.RawMessage(`{"type":"email.sent"}`),
	}

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "msg_p5jXN8AQM9LWM0D4loKWxJek", got["svix_id"])
	assert.Equal(t, "email.sent", got["event_type"])
	assert.Equal(t, "email", got["kind"])
	assert.Equal(t, "postgres", got["backend"])
	assert.Equal(t, map[string]any{"type": "email.sent"}, got["payload"])
}
