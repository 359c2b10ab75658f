// Package event defines the closed set of Resend webhook event variants and
// turns verified payloads into flat, storage-agnostic records.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Event type discriminants. The provider emits exactly these; anything else
// is rejected during classification.
const (
	TypeEmailSent            = "email.sent"
	TypeEmailDelivered       = "email.delivered"
	TypeEmailDeliveryDelayed = "email.delivery_delayed"
	TypeEmailComplained      = "email.complained"
	TypeEmailBounced         = "email.bounced"
	TypeEmailOpened          = "email.opened"
	TypeEmailClicked         = "email.clicked"
	TypeEmailFailed          = "email.failed"
	TypeEmailScheduled       = "email.scheduled"
	TypeEmailSuppressed      = "email.suppressed"
	TypeEmailReceived        = "email.received"

	TypeContactCreated = "contact.created"
	TypeContactUpdated = "contact.updated"
	TypeContactDeleted = "contact.deleted"

	TypeDomainCreated = "domain.created"
	TypeDomainUpdated = "domain.updated"
	TypeDomainDeleted = "domain.deleted"
)

// Kind is the variant a discriminant maps to.
type Kind int

const (
	KindEmail Kind = iota
	KindContact
	KindDomain
)

func (k Kind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindContact:
		return "contact"
	case KindDomain:
		return "domain"
	default:
		return "unknown"
	}
}

var (
	// ErrMalformedEvent means a payload that passed signature
	// verification could not be decoded into an event envelope. Distinct
	// from a signature failure.
	ErrMalformedEvent = errors.New("event: malformed event payload")

	// ErrUnknownEventType means the discriminant matched none of the
	// three variant namespaces. Surfaced to the caller, never dropped.
	ErrUnknownEventType = errors.New("event: unknown event type")
)

// Tag is a name/value label attached to an outbound email.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// BounceData carries delivery-failure detail on email.bounced events.
type BounceData struct {
	Type           string   `json:"type"`
	SubType        string   `json:"subType"`
	Message        string   `json:"message"`
	DiagnosticCode []string `json:"diagnosticCode"`
}

// ClickData carries link-click detail on email.clicked events.
type ClickData struct {
	IPAddress string `json:"ipAddress"`
	Link      string `json:"link"`
	Timestamp string `json:"timestamp"`
	UserAgent string `json:"userAgent"`
}

// EmailData is the variant payload for email.* events. Bounce and Click are
// mutually exclusive in practice; at most one is ever set.
type EmailData struct {
	EmailID     string      `json:"email_id"`
	From        string      `json:"from"`
	To          []string    `json:"to"`
	Subject     string      `json:"subject"`
	CreatedAt   string      `json:"created_at"`
	BroadcastID *string     `json:"broadcast_id,omitempty"`
	TemplateID  *string     `json:"template_id,omitempty"`
	Tags        []Tag       `json:"tags,omitempty"`
	Bounce      *BounceData `json:"bounce,omitempty"`
	Click       *ClickData  `json:"click,omitempty"`
}

// ContactData is the variant payload for contact.* events.
type ContactData struct {
	ID           string   `json:"id"`
	AudienceID   *string  `json:"audience_id,omitempty"`
	SegmentIDs   []string `json:"segment_ids"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
	Email        string   `json:"email"`
	FirstName    *string  `json:"first_name,omitempty"`
	LastName     *string  `json:"last_name,omitempty"`
	Unsubscribed bool     `json:"unsubscribed"`
}

// DNSRecord describes one DNS entry of a sending domain.
type DNSRecord struct {
	Record   string `json:"record"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Value    string `json:"value"`
	TTL      string `json:"ttl"`
	Status   string `json:"status"`
	Priority *int   `json:"priority,omitempty"`
}

// DomainData is the variant payload for domain.* events.
type DomainData struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Status    string      `json:"status"`
	Region    string      `json:"region"`
	CreatedAt string      `json:"created_at"`
	Records   []DNSRecord `json:"records"`
}

// Event is a verified, classified webhook event. Exactly one of Email,
// Contact or Domain is non-nil, matching Kind.
type Event struct {
	Type      string
	CreatedAt string
	Kind      Kind

	Email   *EmailData
	Contact *ContactData
	Domain  *DomainData
}

type envelope struct {
	Type      string          `json:"type"`
	CreatedAt string          `json:"created_at"`
	Data      json.RawMessage `json:"data"`
}

// Classify maps a discriminant string onto its variant by namespace prefix.
func Classify(eventType string) (Kind, error) {
	switch {
	case strings.HasPrefix(eventType, "email."):
		return KindEmail, nil
	case strings.HasPrefix(eventType, "contact."):
		return KindContact, nil
	case strings.HasPrefix(eventType, "domain."):
		return KindDomain, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
	}
}

// Parse decodes a verified payload into a typed Event. The body has already
// passed signature verification; decode failures here are malformed-payload
// errors, not authentication errors.
func Parse(body []byte) (*Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	}

	kind, err := Classify(env.Type)
	if err != nil {
		return nil, err
	}

	ev := &Event{
		Type:      env.Type,
		CreatedAt: env.CreatedAt,
		Kind:      kind,
	}

	switch kind {
	case KindEmail:
		ev.Email = &EmailData{}
		err = json.Unmarshal(env.Data, ev.Email)
	case KindContact:
		ev.Contact = &ContactData{}
		err = json.Unmarshal(env.Data, ev.Contact)
	case KindDomain:
		ev.Domain = &DomainData{}
		err = json.Unmarshal(env.Data, ev.Domain)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s data: %v", ErrMalformedEvent, kind, err)
	}

	return ev, nil
}
