// Package eventtest provides canned webhook payloads for tests.
package eventtest

import (
	"encoding/json"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

func marshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func envelope(eventType string, data map[string]any) []byte {
	return marshal(map[string]any{
		"type":       eventType,
		"created_at": time.Now().UTC().Format(time.RFC3339),
		"data":       data,
	})
}

// EmailSent returns an email.sent payload with tags and no bounce or click
// detail.
func EmailSent() []byte {
	return envelope("email.sent", map[string]any{
		"email_id":   "em_test123",
		"from":       gofakeit.Email(),
		"to":         []string{gofakeit.Email()},
		"subject":    gofakeit.Sentence(4),
		"created_at": time.Now().UTC().Format(time.RFC3339),
		"tags":       []map[string]string{{"name": "campaign", "value": "test"}},
	})
}

// EmailBounced returns an email.bounced payload with bounce detail.
func EmailBounced() []byte {
	return envelope("email.bounced", map[string]any{
		"email_id":   "em_bounce123",
		"from":       gofakeit.Email(),
		"to":         []string{"invalid@example.com"},
		"subject":    "Bounced Email",
		"created_at": time.Now().UTC().Format(time.RFC3339),
		"bounce": map[string]any{
			"type":           "hard",
			"subType":        "permanent",
			"message":        "Mailbox not found",
			"diagnosticCode": []string{"550 5.1.1 User unknown"},
		},
	})
}

// EmailClicked returns an email.clicked payload with click detail.
func EmailClicked() []byte {
	return envelope("email.clicked", map[string]any{
		"email_id":   "em_click123",
		"from":       gofakeit.Email(),
		"to":         []string{gofakeit.Email()},
		"subject":    "Email with Link",
		"created_at": time.Now().UTC().Format(time.RFC3339),
		"click": map[string]any{
			"ipAddress": gofakeit.IPv4Address(),
			"link":      gofakeit.URL(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"userAgent": gofakeit.UserAgent(),
		},
	})
}

// ContactCreated returns a contact.created payload.
func ContactCreated() []byte {
	return envelope("contact.created", map[string]any{
		"id":           "con_test123",
		"audience_id":  "aud_test123",
		"segment_ids":  []string{"seg_1", "seg_2"},
		"email":        gofakeit.Email(),
		"first_name":   gofakeit.FirstName(),
		"last_name":    gofakeit.LastName(),
		"unsubscribed": false,
		"created_at":   time.Now().UTC().Format(time.RFC3339),
		"updated_at":   time.Now().UTC().Format(time.RFC3339),
	})
}

// DomainCreated returns a domain.created payload with DNS records.
func DomainCreated() []byte {
	return envelope("domain.created", map[string]any{
		"id":         "dom_test123",
		"name":       "example.com",
		"status":     "pending",
		"region":     "us-east-1",
		"created_at": time.Now().UTC().Format(time.RFC3339),
		"records": []map[string]any{
			{
				"record": "SPF",
				"name":   "send",
				"type":   "TXT",
				"value":  "v=spf1 include:amazonses.com ~all",
				"ttl":    "Auto",
				"status": "not_started",
			},
			{
				"record":   "Receiving MX",
				"name":     "example.com",
				"type":     "MX",
				"value":    "feedback-smtp.us-east-1.amazonses.com",
				"ttl":      "Auto",
				"status":   "not_started",
				"priority": 10,
			},
		},
	})
}

// Unrecognized returns a payload whose discriminant matches none of the
// three variant namespaces.
func Unrecognized() []byte {
	return envelope("payment.succeeded", map[string]any{
		"id": "pay_test123",
	})
}
