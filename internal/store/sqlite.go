package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/telhawk-systems/resend-sink/internal/event"
)

// SQLiteConfig holds the connection parameters for the sqlite connector.
type SQLiteConfig struct {
	// Path is the database file path, or ":memory:" for an in-memory
	// database.
	Path string
}

// SQLite writes events to a local SQLite file through bun. Intended as the
// zero-infrastructure reference connector. Idempotency mechanism:
// conflict-ignore insert (`ON CONFLICT DO NOTHING`) guarded by the primary
// key on svix_id, enforced by the store.
type SQLite struct {
	cfg SQLiteConfig

	mu sync.Mutex
	db *bun.DB
}

func NewSQLite(cfg SQLiteConfig) *SQLite {
	return &SQLite{cfg: cfg}
}

func (s *SQLite) Name() string { return "sqlite" }

func (s *SQLite) Acquire(ctx context.Context) (Client, error) {
	db, err := s.getDB(ctx)
	if err != nil {
		return nil, err
	}
	return &sqliteClient{db: db}, nil
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLite) getDB(ctx context.Context) (*bun.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}
	if s.cfg.Path == "" {
		return nil, fmt.Errorf("%w: sqlite path", ErrMissingConfig)
	}

	sqldb, err := sql.Open("sqlite3", s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	s.db = bun.NewDB(sqldb, sqlitedialect.New())
	return s.db, nil
}

type sqliteClient struct {
	db *bun.DB
}

type sqliteEmailRow struct {
	bun.BaseModel `bun:"table:resend_wh_emails"`

	SvixID            string    `bun:"svix_id,pk"`
	EventType         string    `bun:"event_type"`
	EventCreatedAt    string    `bun:"event_created_at"`
	WebhookReceivedAt time.Time `bun:"webhook_received_at"`

	EmailID        string  `bun:"email_id"`
	FromAddress    string  `bun:"from_address"`
	ToAddresses    *string `bun:"to_addresses"`
	Subject        string  `bun:"subject"`
	EmailCreatedAt string  `bun:"email_created_at"`

	BroadcastID *string `bun:"broadcast_id"`
	TemplateID  *string `bun:"template_id"`
	Tags        *string `bun:"tags"`

	BounceType           *string `bun:"bounce_type"`
	BounceSubType        *string `bun:"bounce_sub_type"`
	BounceMessage        *string `bun:"bounce_message"`
	BounceDiagnosticCode *string `bun:"bounce_diagnostic_code"`

	ClickIPAddress *string `bun:"click_ip_address"`
	ClickLink      *string `bun:"click_link"`
	ClickTimestamp *string `bun:"click_timestamp"`
	ClickUserAgent *string `bun:"click_user_agent"`
}

type sqliteContactRow struct {
	bun.BaseModel `bun:"table:resend_wh_contacts"`

	SvixID            string    `bun:"svix_id,pk"`
	EventType         string    `bun:"event_type"`
	EventCreatedAt    string    `bun:"event_created_at"`
	WebhookReceivedAt time.Time `bun:"webhook_received_at"`

	ContactID        string  `bun:"contact_id"`
	AudienceID       *string `bun:"audience_id"`
	SegmentIDs       *string `bun:"segment_ids"`
	Email            string  `bun:"email"`
	FirstName        *string `bun:"first_name"`
	LastName         *string `bun:"last_name"`
	Unsubscribed     bool    `bun:"unsubscribed"`
	ContactCreatedAt string  `bun:"contact_created_at"`
	ContactUpdatedAt string  `bun:"contact_updated_at"`
}

type sqliteDomainRow struct {
	bun.BaseModel `bun:"table:resend_wh_domains"`

	SvixID            string    `bun:"svix_id,pk"`
	EventType         string    `bun:"event_type"`
	EventCreatedAt    string    `bun:"event_created_at"`
	WebhookReceivedAt time.Time `bun:"webhook_received_at"`

	DomainID        string  `bun:"domain_id"`
	Name            string  `bun:"name"`
	Status          string  `bun:"status"`
	Region          string  `bun:"region"`
	DomainCreatedAt string  `bun:"domain_created_at"`
	Records         *string `bun:"records"`
}

func (c *sqliteClient) WriteEmail(ctx context.Context, rec event.EmailRecord, svixID string) (bool, error) {
	tags, err := rec.TagsJSON()
	if err != nil {
		return false, fmt.Errorf("sqlite: marshal tags: %w", err)
	}
	to, err := jsonListPtr(rec.ToAddresses)
	if err != nil {
		return false, err
	}
	diag, err := jsonListPtr(rec.BounceDiagnosticCode)
	if err != nil {
		return false, err
	}

	row := &sqliteEmailRow{
		SvixID:               svixID,
		EventType:            rec.EventType,
		EventCreatedAt:       rec.EventCreatedAt,
		WebhookReceivedAt:    time.Now().UTC(),
		EmailID:              rec.EmailID,
		FromAddress:          rec.FromAddress,
		ToAddresses:          to,
		Subject:              rec.Subject,
		EmailCreatedAt:       rec.EmailCreatedAt,
		BroadcastID:          rec.BroadcastID,
		TemplateID:           rec.TemplateID,
		Tags:                 bytesPtr(tags),
		BounceType:           rec.BounceType,
		BounceSubType:        rec.BounceSubType,
		BounceMessage:        rec.BounceMessage,
		BounceDiagnosticCode: diag,
		ClickIPAddress:       rec.ClickIPAddress,
		ClickLink:            rec.ClickLink,
		ClickTimestamp:       rec.ClickTimestamp,
		ClickUserAgent:       rec.ClickUserAgent,
	}
	return c.insertIgnoring(ctx, row)
}

func (c *sqliteClient) WriteContact(ctx context.Context, rec event.ContactRecord, svixID string) (bool, error) {
	segments, err := jsonListPtr(rec.SegmentIDs)
	if err != nil {
		return false, err
	}

	row := &sqliteContactRow{
		SvixID:            svixID,
		EventType:         rec.EventType,
		EventCreatedAt:    rec.EventCreatedAt,
		WebhookReceivedAt: time.Now().UTC(),
		ContactID:         rec.ContactID,
		AudienceID:        rec.AudienceID,
		SegmentIDs:        segments,
		Email:             rec.Email,
		FirstName:         rec.FirstName,
		LastName:          rec.LastName,
		Unsubscribed:      rec.Unsubscribed,
		ContactCreatedAt:  rec.ContactCreatedAt,
		ContactUpdatedAt:  rec.ContactUpdatedAt,
	}
	return c.insertIgnoring(ctx, row)
}

func (c *sqliteClient) WriteDomain(ctx context.Context, rec event.DomainRecord, svixID string) (bool, error) {
	records, err := rec.RecordsJSON()
	if err != nil {
		return false, fmt.Errorf("sqlite: marshal dns records: %w", err)
	}

	row := &sqliteDomainRow{
		SvixID:            svixID,
		EventType:         rec.EventType,
		EventCreatedAt:    rec.EventCreatedAt,
		WebhookReceivedAt: time.Now().UTC(),
		DomainID:          rec.DomainID,
		Name:              rec.Name,
		Status:            rec.Status,
		Region:            rec.Region,
		DomainCreatedAt:   rec.DomainCreatedAt,
		Records:           bytesPtr(records),
	}
	return c.insertIgnoring(ctx, row)
}

func (c *sqliteClient) Release(ctx context.Context) error { return nil }

func (c *sqliteClient) insertIgnoring(ctx context.Context, model any) (bool, error) {
	res, err := c.db.NewInsert().Model(model).Ignore().Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("sqlite: insert: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	return affected == 0, nil
}

func jsonListPtr(list []string) (*string, error) {
	v, err := jsonList(list)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	s := v.(string)
	return &s, nil
}

func bytesPtr(b []byte) *string {
	if b == nil {
		return nil
	}
	s := string(b)
	return &s
}
