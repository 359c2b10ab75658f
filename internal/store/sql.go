package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/telhawk-systems/resend-sink/internal/event"
)

// Column orders are shared by the SQL connectors so argument builders and
// INSERT statements cannot drift apart.

var emailColumns = []string{
	"svix_id", "event_type", "event_created_at", "webhook_received_at",
	"email_id", "from_address", "to_addresses", "subject", "email_created_at",
	"broadcast_id", "template_id", "tags",
	"bounce_type", "bounce_sub_type", "bounce_message", "bounce_diagnostic_code",
	"click_ip_address", "click_link", "click_timestamp", "click_user_agent",
}

var contactColumns = []string{
	"svix_id", "event_type", "event_created_at", "webhook_received_at",
	"contact_id", "audience_id", "segment_ids", "email",
	"first_name", "last_name", "unsubscribed",
	"contact_created_at", "contact_updated_at",
}

var domainColumns = []string{
	"svix_id", "event_type", "event_created_at", "webhook_received_at",
	"domain_id", "name", "status", "region", "domain_created_at", "records",
}

// placeholders renders a parameter list: "$1, $2, ..." when dollar is set
// (postgres), "?, ?, ..." otherwise (mysql).
func placeholders(n int, dollar bool) string {
	parts := make([]string, n)
	for i := range parts {
		if dollar {
			parts[i] = fmt.Sprintf("$%d", i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// emailArgsNative builds the argument list for backends with native array
// and json types (postgres). Order matches emailColumns.
func emailArgsNative(rec event.EmailRecord, svixID string, receivedAt time.Time) ([]any, error) {
	tags, err := rec.TagsJSON()
	if err != nil {
		return nil, fmt.Errorf("store: marshal tags: %w", err)
	}
	return []any{
		svixID, rec.EventType, rec.EventCreatedAt, receivedAt,
		rec.EmailID, rec.FromAddress, rec.ToAddresses, rec.Subject, rec.EmailCreatedAt,
		rec.BroadcastID, rec.TemplateID, tags,
		rec.BounceType, rec.BounceSubType, rec.BounceMessage, rec.BounceDiagnosticCode,
		rec.ClickIPAddress, rec.ClickLink, rec.ClickTimestamp, rec.ClickUserAgent,
	}, nil
}

// emailArgsJSON builds the argument list for backends without array types
// (mysql); list values are JSON-encoded strings. Order matches emailColumns.
func emailArgsJSON(rec event.EmailRecord, svixID string, receivedAt time.Time) ([]any, error) {
	tags, err := rec.TagsJSON()
	if err != nil {
		return nil, fmt.Errorf("store: marshal tags: %w", err)
	}
	to, err := jsonList(rec.ToAddresses)
	if err != nil {
		return nil, err
	}
	diag, err := jsonList(rec.BounceDiagnosticCode)
	if err != nil {
		return nil, err
	}
	return []any{
		svixID, rec.EventType, rec.EventCreatedAt, receivedAt,
		rec.EmailID, rec.FromAddress, to, rec.Subject, rec.EmailCreatedAt,
		rec.BroadcastID, rec.TemplateID, nullableBytes(tags),
		rec.BounceType, rec.BounceSubType, rec.BounceMessage, diag,
		rec.ClickIPAddress, rec.ClickLink, rec.ClickTimestamp, rec.ClickUserAgent,
	}, nil
}

func contactArgsNative(rec event.ContactRecord, svixID string, receivedAt time.Time) []any {
	return []any{
		svixID, rec.EventType, rec.EventCreatedAt, receivedAt,
		rec.ContactID, rec.AudienceID, rec.SegmentIDs, rec.Email,
		rec.FirstName, rec.LastName, rec.Unsubscribed,
		rec.ContactCreatedAt, rec.ContactUpdatedAt,
	}
}

func contactArgsJSON(rec event.ContactRecord, svixID string, receivedAt time.Time) ([]any, error) {
	segments, err := jsonList(rec.SegmentIDs)
	if err != nil {
		return nil, err
	}
	return []any{
		svixID, rec.EventType, rec.EventCreatedAt, receivedAt,
		rec.ContactID, rec.AudienceID, segments, rec.Email,
		rec.FirstName, rec.LastName, rec.Unsubscribed,
		rec.ContactCreatedAt, rec.ContactUpdatedAt,
	}, nil
}

// domainArgs serializes DNS records as json for every SQL backend; none of
// them has a structured type for the nested descriptor list.
func domainArgs(rec event.DomainRecord, svixID string, receivedAt time.Time) ([]any, error) {
	records, err := rec.RecordsJSON()
	if err != nil {
		return nil, fmt.Errorf("store: marshal dns records: %w", err)
	}
	return []any{
		svixID, rec.EventType, rec.EventCreatedAt, receivedAt,
		rec.DomainID, rec.Name, rec.Status, rec.Region, rec.DomainCreatedAt,
		nullableBytes(records),
	}, nil
}

func jsonList(list []string) (any, error) {
	if list == nil {
		return nil, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("store: marshal list: %w", err)
	}
	return string(b), nil
}

func nullableBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
