package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail_SentLeavesBounceAndClickNil(t *testing.T) {
	ev, err := Parse([]byte(emailSentBody))
	require.NoError(t, err)

	rec := NormalizeEmail(ev)

	assert.Equal(t, "email.sent", rec.EventType)
	assert.Equal(t, "em_abc123", rec.EmailID)
	assert.Equal(t, "Acme <onboarding@resend.dev>", rec.FromAddress)
	assert.Equal(t, []string{"delivered@resend.dev"}, rec.ToAddresses)
	assert.Equal(t, "Hello World", rec.Subject)

	// Optional groups absent in the source are nil, never omitted from
	// the record shape.
	assert.Nil(t, rec.BroadcastID)
	assert.Nil(t, rec.TemplateID)
	assert.Nil(t, rec.BounceType)
	assert.Nil(t, rec.BounceSubType)
	assert.Nil(t, rec.BounceMessage)
	assert.Nil(t, rec.BounceDiagnosticCode)
	assert.Nil(t, rec.ClickIPAddress)
	assert.Nil(t, rec.ClickLink)
	assert.Nil(t, rec.ClickTimestamp)
	assert.Nil(t, rec.ClickUserAgent)

	require.Len(t, rec.Tags, 1)
	assert.Equal(t, Tag{Name: "campaign", Value: "launch"}, rec.Tags[0])
}

func TestNormalizeEmail_BouncePopulatedClickNil(t *testing.T) {
	ev := &Event{
		Type:      TypeEmailBounced,
		CreatedAt: "2024-02-22T23:41:12.126Z",
		Kind:      KindEmail,
		Email: &EmailData{
			EmailID:   "em_bounce",
			From:      "sender@example.com",
			To:        []string{"invalid@example.com"},
			Subject:   "Bounced",
			CreatedAt: "2024-02-22T23:41:11.894Z",
			Bounce: &BounceData{
				Type:           "hard",
				SubType:        "permanent",
				Message:        "Mailbox not found",
				DiagnosticCode: []string{"550 5.1.1 User unknown"},
			},
		},
	}

	rec := NormalizeEmail(ev)

	require.NotNil(t, rec.BounceType)
	assert.Equal(t, "hard", *rec.BounceType)
	require.NotNil(t, rec.BounceSubType)
	assert.Equal(t, "permanent", *rec.BounceSubType)
	require.NotNil(t, rec.BounceMessage)
	assert.Equal(t, "Mailbox not found", *rec.BounceMessage)
	assert.Equal(t, []string{"550 5.1.1 User unknown"}, rec.BounceDiagnosticCode)

	assert.Nil(t, rec.ClickIPAddress)
	assert.Nil(t, rec.ClickLink)
	assert.Nil(t, rec.ClickTimestamp)
	assert.Nil(t, rec.ClickUserAgent)
}

func TestNormalizeEmail_ClickPopulatedBounceNil(t *testing.T) {
	ev := &Event{
		Type: TypeEmailClicked,
		Kind: KindEmail,
		Email: &EmailData{
			EmailID: "em_click",
			Click: &ClickData{
				IPAddress: "192.168.1.1",
				Link:      "https://example.com/link",
				Timestamp: "2024-02-22T23:41:12.126Z",
				UserAgent: "Mozilla/5.0",
			},
		},
	}

	rec := NormalizeEmail(ev)

	require.NotNil(t, rec.ClickLink)
	assert.Equal(t, "https://example.com/link", *rec.ClickLink)
	require.NotNil(t, rec.ClickIPAddress)
	assert.Equal(t, "192.168.1.1", *rec.ClickIPAddress)
	assert.Nil(t, rec.BounceType)
	assert.Nil(t, rec.BounceDiagnosticCode)
}

func TestNormalizeContact(t *testing.T) {
	aud := "aud_9"
	first := "Ada"
	ev := &Event{
		Type:      TypeContactCreated,
		CreatedAt: "2024-02-22T23:41:12.126Z",
		Kind:      KindContact,
		Contact: &ContactData{
			ID:           "con_9",
			AudienceID:   &aud,
			SegmentIDs:   []string{"seg_1", "seg_2"},
			Email:        "ada@example.com",
			FirstName:    &first,
			Unsubscribed: false,
			CreatedAt:    "2024-01-01T00:00:00Z",
			UpdatedAt:    "2024-02-01T00:00:00Z",
		},
	}

	rec := NormalizeContact(ev)

	assert.Equal(t, "con_9", rec.ContactID)
	require.NotNil(t, rec.AudienceID)
	assert.Equal(t, "aud_9", *rec.AudienceID)
	assert.Equal(t, []string{"seg_1", "seg_2"}, rec.SegmentIDs)
	require.NotNil(t, rec.FirstName)
	assert.Equal(t, "Ada", *rec.FirstName)
	assert.Nil(t, rec.LastName)
	assert.Equal(t, "2024-01-01T00:00:00Z", rec.ContactCreatedAt)
	assert.Equal(t, "2024-02-01T00:00:00Z", rec.ContactUpdatedAt)
}

func TestNormalizeDomain(t *testing.T) {
	prio := 10
	ev := &Event{
		Type:      TypeDomainCreated,
		CreatedAt: "2024-02-22T23:41:12.126Z",
		Kind:      KindDomain,
		Domain: &DomainData{
			ID:        "dom_9",
			Name:      "example.com",
			Status:    "verified",
			Region:    "sa-east-1",
			CreatedAt: "2024-01-01T00:00:00Z",
			Records: []DNSRecord{
				{Record: "Receiving MX", Name: "example.com", Type: "MX", Value: "mx.example.com", TTL: "Auto", Status: "verified", Priority: &prio},
			},
		},
	}

	rec := NormalizeDomain(ev)

	assert.Equal(t, "dom_9", rec.DomainID)
	assert.Equal(t, "verified", rec.Status)
	assert.Equal(t, "sa-east-1", rec.Region)
	require.Len(t, rec.Records, 1)
	assert.Equal(t, 10, *rec.Records[0].Priority)
}

func TestSerializationHelpers(t *testing.T) {
	rec := EmailRecord{Tags: []Tag{{Name: "a", Value: "b"}}}
	data, err := rec.TagsJSON()
	require.NoError(t, err)

	var round []Tag
	require.NoError(t, json.Unmarshal(data, &round))
	assert.Equal(t, rec.Tags, round)

	empty := EmailRecord{}
	data, err = empty.TagsJSON()
	require.NoError(t, err)
	assert.Nil(t, data)

	dom := DomainRecord{}
	data, err = dom.RecordsJSON()
	require.NoError(t, err)
	assert.Nil(t, data)
}
