package event

import "encoding/json"

// Normalized records are flat mappings of column names to scalar or list
// values. The shape is fixed per variant: every field the variant can ever
// emit is present, with nil standing in for optionals the source payload
// omitted. An email.sent and an email.bounced event produce records of the
// same shape; only the populated fields differ.

// EmailRecord is the flat form of an email.* event.
type EmailRecord struct {
	EventType      string
	EventCreatedAt string

	EmailID        string
	FromAddress    string
	ToAddresses    []string
	Subject        string
	EmailCreatedAt string

	BroadcastID *string
	TemplateID  *string
	Tags        []Tag

	BounceType           *string
	BounceSubType        *string
	BounceMessage        *string
	BounceDiagnosticCode []string

	ClickIPAddress *string
	ClickLink      *string
	ClickTimestamp *string
	ClickUserAgent *string
}

// ContactRecord is the flat form of a contact.* event.
type ContactRecord struct {
	EventType      string
	EventCreatedAt string

	ContactID        string
	AudienceID       *string
	SegmentIDs       []string
	Email            string
	FirstName        *string
	LastName         *string
	Unsubscribed     bool
	ContactCreatedAt string
	ContactUpdatedAt string
}

// DomainRecord is the flat form of a domain.* event.
type DomainRecord struct {
	EventType      string
	EventCreatedAt string

	DomainID        string
	Name            string
	Status          string
	Region          string
	DomainCreatedAt string
	Records         []DNSRecord
}

// NormalizeEmail flattens an email event. Bounce and click sub-objects are
// spread into the record; the absent one leaves its field group nil.
func NormalizeEmail(ev *Event) EmailRecord {
	d := ev.Email
	rec := EmailRecord{
		EventType:      ev.Type,
		EventCreatedAt: ev.CreatedAt,
		EmailID:        d.EmailID,
		FromAddress:    d.From,
		ToAddresses:    d.To,
		Subject:        d.Subject,
		EmailCreatedAt: d.CreatedAt,
		BroadcastID:    d.BroadcastID,
		TemplateID:     d.TemplateID,
		Tags:           d.Tags,
	}
	if b := d.Bounce; b != nil {
		rec.BounceType = &b.Type
		rec.BounceSubType = &b.SubType
		rec.BounceMessage = &b.Message
		rec.BounceDiagnosticCode = b.DiagnosticCode
	}
	if c := d.Click; c != nil {
		rec.ClickIPAddress = &c.IPAddress
		rec.ClickLink = &c.Link
		rec.ClickTimestamp = &c.Timestamp
		rec.ClickUserAgent = &c.UserAgent
	}
	return rec
}

// NormalizeContact flattens a contact event.
func NormalizeContact(ev *Event) ContactRecord {
	d := ev.Contact
	return ContactRecord{
		EventType:        ev.Type,
		EventCreatedAt:   ev.CreatedAt,
		ContactID:        d.ID,
		AudienceID:       d.AudienceID,
		SegmentIDs:       d.SegmentIDs,
		Email:            d.Email,
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		Unsubscribed:     d.Unsubscribed,
		ContactCreatedAt: d.CreatedAt,
		ContactUpdatedAt: d.UpdatedAt,
	}
}

// NormalizeDomain flattens a domain event. DNS records stay structured here;
// connectors whose store has no structured-array type serialize them.
func NormalizeDomain(ev *Event) DomainRecord {
	d := ev.Domain
	return DomainRecord{
		EventType:       ev.Type,
		EventCreatedAt:  ev.CreatedAt,
		DomainID:        d.ID,
		Name:            d.Name,
		Status:          d.Status,
		Region:          d.Region,
		DomainCreatedAt: d.CreatedAt,
		Records:         d.Records,
	}
}

// TagsJSON returns the tag list serialized for stores without a structured
// type, or nil when no tags were present.
func (r EmailRecord) TagsJSON() ([]byte, error) {
	if r.Tags == nil {
		return nil, nil
	}
	return json.Marshal(r.Tags)
}

// RecordsJSON returns the DNS record list serialized for stores without a
// structured type, or nil when the list is absent.
func (r DomainRecord) RecordsJSON() ([]byte, error) {
	if r.Records == nil {
		return nil, nil
	}
	return json.Marshal(r.Records)
}
