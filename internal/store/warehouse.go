package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/telhawk-systems/resend-sink/internal/event"
)

// WarehouseConfig holds the connection parameters for the warehouse
// connector.
type WarehouseConfig struct {
	URL string
	// Schema is the analytics schema holding the append-only event
	// tables. Defaults to "analytics".
	Schema string
}

// Warehouse writes events to append-only analytical tables that carry no
// uniqueness constraint. Idempotency mechanism: conditional merge — the
// insert only runs when no row with the svix_id exists. This is a narrower
// guarantee than the constraint-backed connectors: two duplicate deliveries
// racing through the existence check can both insert. The provider delivers
// duplicates sequentially on redelivery, so the window is accepted and
// documented rather than hidden.
type Warehouse struct {
	cfg WarehouseConfig

	mu   sync.Mutex
	pool *pgxpool.Pool
}

func NewWarehouse(cfg WarehouseConfig) *Warehouse {
	if cfg.Schema == "" {
		cfg.Schema = "analytics"
	}
	return &Warehouse{cfg: cfg}
}

func (w *Warehouse) Name() string { return "warehouse" }

func (w *Warehouse) Acquire(ctx context.Context) (Client, error) {
	pool, err := w.getPool(ctx)
	if err != nil {
		return nil, err
	}
	return &warehouseClient{pool: pool, schema: w.cfg.Schema}, nil
}

func (w *Warehouse) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pool != nil {
		w.pool.Close()
		w.pool = nil
	}
	return nil
}

func (w *Warehouse) getPool(ctx context.Context) (*pgxpool.Pool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pool != nil {
		return w.pool, nil
	}
	if w.cfg.URL == "" {
		return nil, fmt.Errorf("%w: warehouse url", ErrMissingConfig)
	}

	pool, err := pgxpool.New(ctx, w.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("warehouse: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("warehouse: ping: %w", err)
	}

	w.pool = pool
	return w.pool, nil
}

type warehouseClient struct {
	pool   *pgxpool.Pool
	schema string
}

func (c *warehouseClient) WriteEmail(ctx context.Context, rec event.EmailRecord, svixID string) (bool, error) {
	args, err := emailArgsNative(rec, svixID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return c.mergeInsert(ctx, TableEmails, emailColumns, args)
}

func (c *warehouseClient) WriteContact(ctx context.Context, rec event.ContactRecord, svixID string) (bool, error) {
	args := contactArgsNative(rec, svixID, time.Now().UTC())
	return c.mergeInsert(ctx, TableContacts, contactColumns, args)
}

func (c *warehouseClient) WriteDomain(ctx context.Context, rec event.DomainRecord, svixID string) (bool, error) {
	args, err := domainArgs(rec, svixID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return c.mergeInsert(ctx, TableDomains, domainColumns, args)
}

func (c *warehouseClient) Release(ctx context.Context) error { return nil }

// mergeInsert inserts only when no row with the svix_id exists. The svix_id
// is always args[0].
func (c *warehouseClient) mergeInsert(ctx context.Context, table string, columns []string, args []any) (bool, error) {
	qualified := pgx.Identifier{c.schema, table}.Sanitize()
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) SELECT %s WHERE NOT EXISTS (SELECT 1 FROM %s WHERE svix_id = $1)",
		qualified, strings.Join(columns, ", "), placeholders(len(columns), true), qualified,
	)
	tag, err := c.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("warehouse: merge into %s: %w", table, err)
	}
	return tag.RowsAffected() == 0, nil
}
