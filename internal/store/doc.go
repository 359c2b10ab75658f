package store

import (
	"time"

	"github.com/telhawk-systems/resend-sink/internal/event"
)

// Document shapes shared by the document-oriented connectors (opensearch,
// redis). Field names mirror the SQL column names so the stored shape is
// identical across backends.

type emailDoc struct {
	SvixID            string    `json:"svix_id"`
	EventType         string    `json:"event_type"`
	EventCreatedAt    string    `json:"event_created_at"`
	WebhookReceivedAt time.Time `json:"webhook_received_at"`

	EmailID        string   `json:"email_id"`
	FromAddress    string   `json:"from_address"`
	ToAddresses    []string `json:"to_addresses"`
	Subject        string   `json:"subject"`
	EmailCreatedAt string   `json:"email_created_at"`

	BroadcastID *string     `json:"broadcast_id"`
	TemplateID  *string     `json:"template_id"`
	Tags        []event.Tag `json:"tags"`

	BounceType           *string  `json:"bounce_type"`
	BounceSubType        *string  `json:"bounce_sub_type"`
	BounceMessage        *string  `json:"bounce_message"`
	BounceDiagnosticCode []string `json:"bounce_diagnostic_code"`

	ClickIPAddress *string `json:"click_ip_address"`
	ClickLink      *string `json:"click_link"`
	ClickTimestamp *string `json:"click_timestamp"`
	ClickUserAgent *string `json:"click_user_agent"`
}

type contactDoc struct {
	SvixID            string    `json:"svix_id"`
	EventType         string    `json:"event_type"`
	EventCreatedAt    string    `json:"event_created_at"`
	WebhookReceivedAt time.Time `json:"webhook_received_at"`

	ContactID        string   `json:"contact_id"`
	AudienceID       *string  `json:"audience_id"`
	SegmentIDs       []string `json:"segment_ids"`
	Email            string   `json:"email"`
	FirstName        *string  `json:"first_name"`
	LastName         *string  `json:"last_name"`
	Unsubscribed     bool     `json:"unsubscribed"`
	ContactCreatedAt string   `json:"contact_created_at"`
	ContactUpdatedAt string   `json:"contact_updated_at"`
}

type domainDoc struct {
	SvixID            string    `json:"svix_id"`
	EventType         string    `json:"event_type"`
	EventCreatedAt    string    `json:"event_created_at"`
	WebhookReceivedAt time.Time `json:"webhook_received_at"`

	DomainID        string            `json:"domain_id"`
	Name            string            `json:"name"`
	Status          string            `json:"status"`
	Region          string            `json:"region"`
	DomainCreatedAt string            `json:"domain_created_at"`
	Records         []event.DNSRecord `json:"records"`
}

func newEmailDoc(rec event.EmailRecord, svixID string, receivedAt time.Time) emailDoc {
	return emailDoc{
		SvixID:               svixID,
		EventType:            rec.EventType,
		EventCreatedAt:       rec.EventCreatedAt,
		WebhookReceivedAt:    receivedAt,
		EmailID:              rec.EmailID,
		FromAddress:          rec.FromAddress,
		ToAddresses:          rec.ToAddresses,
		Subject:              rec.Subject,
		EmailCreatedAt:       rec.EmailCreatedAt,
		BroadcastID:          rec.BroadcastID,
		TemplateID:           rec.TemplateID,
		Tags:                 rec.Tags,
		BounceType:           rec.BounceType,
		BounceSubType:        rec.BounceSubType,
		BounceMessage:        rec.BounceMessage,
		BounceDiagnosticCode: rec.BounceDiagnosticCode,
		ClickIPAddress:       rec.ClickIPAddress,
		ClickLink:            rec.ClickLink,
		ClickTimestamp:       rec.ClickTimestamp,
		ClickUserAgent:       rec.ClickUserAgent,
	}
}

func newContactDoc(rec event.ContactRecord, svixID string, receivedAt time.Time) contactDoc {
	return contactDoc{
		SvixID:            svixID,
		EventType:         rec.EventType,
		EventCreatedAt:    rec.EventCreatedAt,
		WebhookReceivedAt: receivedAt,
		ContactID:         rec.ContactID,
		AudienceID:        rec.AudienceID,
		SegmentIDs:        rec.SegmentIDs,
		Email:             rec.Email,
		FirstName:         rec.FirstName,
		LastName:          rec.LastName,
		Unsubscribed:      rec.Unsubscribed,
		ContactCreatedAt:  rec.ContactCreatedAt,
		ContactUpdatedAt:  rec.ContactUpdatedAt,
	}
}

func newDomainDoc(rec event.DomainRecord, svixID string, receivedAt time.Time) domainDoc {
	return domainDoc{
		SvixID:            svixID,
		EventType:         rec.EventType,
		EventCreatedAt:    rec.EventCreatedAt,
		WebhookReceivedAt: receivedAt,
		DomainID:          rec.DomainID,
		Name:              rec.Name,
		Status:            rec.Status,
		Region:            rec.Region,
		DomainCreatedAt:   rec.DomainCreatedAt,
		Records:           rec.Records,
	}
}
