package svix

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"
)

const testSecret = "whsec_dGVzdC1zZWNyZXQta2V5LWZvci1zdml4" // "test-secret-key-for-svix"

func signedHeaders(t *testing.T, wh *Webhook, msgID string, ts time.Time, payload []byte) http.Header {
	t.Helper()
	h := http.Header{}
	h.Set(HeaderID, msgID)
	h.Set(HeaderTimestamp, strconv.FormatInt(ts.Unix(), 10))
	h.Set(HeaderSignature, wh.Sign(msgID, ts, payload))
	return h
}

func TestNewWebhook(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{name: "prefixed secret", secret: testSecret},
		{name: "bare base64 secret", secret: "dGVzdC1zZWNyZXQta2V5LWZvci1zdml4"},
		{name: "undecodable secret", secret: "whsec_!!!not-base64!!!", wantErr: true},
		{name: "empty secret", secret: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWebhook(tt.secret)
			if tt.wantErr && !errors.Is(err, ErrInvalidSecret) {
				t.Fatalf("expected ErrInvalidSecret, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	wh, err := NewWebhook(testSecret)
	if err != nil {
		t.Fatalf("NewWebhook: %v", err)
	}

	payload := []byte(`{"type":"email.sent","data":{"email_id":"em_1"}}`)
	headers := signedHeaders(t, wh, "msg_abc", time.Now(), payload)

	if err := wh.Verify(payload, headers); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
}

func TestVerify_TamperedBody(t *testing.T) {
	wh, _ := NewWebhook(testSecret)

	payload := []byte(`{"type":"email.sent"}`)
	headers := signedHeaders(t, wh, "msg_abc", time.Now(), payload)

	tampered := []byte(`{"type":"email.sent","extra":true}`)
	if err := wh.Verify(tampered, headers); !errors.Is(err, ErrNoMatchingSignature) {
		t.Fatalf("expected ErrNoMatchingSignature, got %v", err)
	}
}

func TestVerify_MissingHeaders(t *testing.T) {
	wh, _ := NewWebhook(testSecret)
	payload := []byte(`{}`)

	for _, missing := range []string{HeaderID, HeaderTimestamp, HeaderSignature} {
		t.Run(missing, func(t *testing.T) {
			headers := signedHeaders(t, wh, "msg_abc", time.Now(), payload)
			headers.Del(missing)
			if err := wh.Verify(payload, headers); !errors.Is(err, ErrMissingHeaders) {
				t.Fatalf("expected ErrMissingHeaders, got %v", err)
			}
		})
	}
}

func TestVerify_MultipleCandidates(t *testing.T) {
	wh, _ := NewWebhook(testSecret)

	payload := []byte(`{"type":"contact.created"}`)
	now := time.Now()
	valid := wh.Sign("msg_multi", now, payload)
	bogus := "v1," + base64.StdEncoding.EncodeToString([]byte("not-a-real-mac-but-decodes"))

	headers := http.Header{}
	headers.Set(HeaderID, "msg_multi")
	headers.Set(HeaderTimestamp, strconv.FormatInt(now.Unix(), 10))
	headers.Set(HeaderSignature, bogus+" "+valid)

	if err := wh.Verify(payload, headers); err != nil {
		t.Fatalf("expected any matching candidate to pass, got %v", err)
	}
}

func TestVerify_NoV1Candidate(t *testing.T) {
	wh, _ := NewWebhook(testSecret)

	payload := []byte(`{}`)
	now := time.Now()
	// Same MAC but under an unsupported scheme identifier.
	mac := wh.Sign("msg_v2", now, payload)
	headers := http.Header{}
	headers.Set(HeaderID, "msg_v2")
	headers.Set(HeaderTimestamp, strconv.FormatInt(now.Unix(), 10))
	headers.Set(HeaderSignature, "v2,"+mac[len("v1,"):])

	if err := wh.Verify(payload, headers); !errors.Is(err, ErrNoMatchingSignature) {
		t.Fatalf("expected ErrNoMatchingSignature, got %v", err)
	}
}

func TestVerify_UndecodableCandidateSkipped(t *testing.T) {
	wh, _ := NewWebhook(testSecret)

	payload := []byte(`{}`)
	now := time.Now()
	headers := http.Header{}
	headers.Set(HeaderID, "msg_bad64")
	headers.Set(HeaderTimestamp, strconv.FormatInt(now.Unix(), 10))
	headers.Set(HeaderSignature, "v1,!!!! "+wh.Sign("msg_bad64", now, payload))

	if err := wh.Verify(payload, headers); err != nil {
		t.Fatalf("undecodable candidate should be skipped, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	signer, _ := NewWebhook(testSecret)
	verifier, _ := NewWebhook("whsec_b3RoZXIta2V5LWVudGlyZWx5")

	payload := []byte(`{"type":"domain.created"}`)
	headers := signedHeaders(t, signer, "msg_xyz", time.Now(), payload)

	if err := verifier.Verify(payload, headers); !errors.Is(err, ErrNoMatchingSignature) {
		t.Fatalf("expected ErrNoMatchingSignature, got %v", err)
	}
}

func TestVerify_NoToleranceAcceptsOldTimestamps(t *testing.T) {
	wh, _ := NewWebhook(testSecret)

	payload := []byte(`{"type":"email.sent"}`)
	old := time.Now().Add(-365 * 24 * time.Hour)
	headers := signedHeaders(t, wh, "msg_old", old, payload)

	if err := wh.Verify(payload, headers); err != nil {
		t.Fatalf("reference behavior accepts old signatures, got %v", err)
	}
}

func TestVerify_ToleranceRejectsStale(t *testing.T) {
	wh, err := NewWebhookWithTolerance(testSecret, 5*time.Minute)
	if err != nil {
		t.Fatalf("NewWebhookWithTolerance: %v", err)
	}

	payload := []byte(`{"type":"email.sent"}`)

	fresh := signedHeaders(t, wh, "msg_fresh", time.Now(), payload)
	if err := wh.Verify(payload, fresh); err != nil {
		t.Fatalf("fresh delivery should verify, got %v", err)
	}

	stale := signedHeaders(t, wh, "msg_stale", time.Now().Add(-time.Hour), payload)
	if err := wh.Verify(payload, stale); !errors.Is(err, ErrTimestampTolerance) {
		t.Fatalf("expected ErrTimestampTolerance, got %v", err)
	}

	headers := signedHeaders(t, wh, "msg_nonnum", time.Now(), payload)
	headers.Set(HeaderTimestamp, "not-a-number")
	if err := wh.Verify(payload, headers); !errors.Is(err, ErrTimestampTolerance) {
		t.Fatalf("expected ErrTimestampTolerance for unparseable timestamp, got %v", err)
	}
}

func TestSign_Deterministic(t *testing.T) {
	wh, _ := NewWebhook(testSecret)
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	payload := []byte(`{"same":"input"}`)

	if wh.Sign("msg_det", ts, payload) != wh.Sign("msg_det", ts, payload) {
		t.Error("expected deterministic signatures for same input")
	}
	if wh.Sign("msg_det", ts, payload) == wh.Sign("msg_other", ts, payload) {
		t.Error("expected different signatures for different message IDs")
	}
}
