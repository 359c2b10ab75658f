package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/telhawk-systems/resend-sink/internal/event"
)

// MySQLConfig holds the connection parameters for the mysql connector.
type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// MySQL writes events to MySQL (or a wire-compatible store). Idempotency
// mechanism: conflict-ignore insert (`INSERT IGNORE`) guarded by the unique
// index on svix_id, enforced by the store and safe under concurrent
// duplicate delivery.
type MySQL struct {
	cfg MySQLConfig

	mu sync.Mutex
	db *sql.DB
}

func NewMySQL(cfg MySQLConfig) *MySQL {
	return &MySQL{cfg: cfg}
}

func (m *MySQL) Name() string { return "mysql" }

func (m *MySQL) Acquire(ctx context.Context) (Client, error) {
	db, err := m.getDB(ctx)
	if err != nil {
		return nil, err
	}
	return &mysqlClient{db: db}, nil
}

func (m *MySQL) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db != nil {
		err := m.db.Close()
		m.db = nil
		return err
	}
	return nil
}

func (m *MySQL) getDB(ctx context.Context) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return m.db, nil
	}
	if m.cfg.Host == "" || m.cfg.User == "" || m.cfg.Database == "" {
		return nil, fmt.Errorf("%w: mysql host, user and database", ErrMissingConfig)
	}

	port := m.cfg.Port
	if port == 0 {
		port = 3306
	}

	dsnCfg := mysql.NewConfig()
	dsnCfg.User = m.cfg.User
	dsnCfg.Passwd = m.cfg.Password
	dsnCfg.Net = "tcp"
	dsnCfg.Addr = fmt.Sprintf("%s:%d", m.cfg.Host, port)
	dsnCfg.DBName = m.cfg.Database
	dsnCfg.ParseTime = true

	db, err := sql.Open("mysql", dsnCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}

	m.db = db
	return m.db, nil
}

type mysqlClient struct {
	db *sql.DB
}

func (c *mysqlClient) WriteEmail(ctx context.Context, rec event.EmailRecord, svixID string) (bool, error) {
	args, err := emailArgsJSON(rec, svixID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return c.insertIgnore(ctx, TableEmails, emailColumns, args)
}

func (c *mysqlClient) WriteContact(ctx context.Context, rec event.ContactRecord, svixID string) (bool, error) {
	args, err := contactArgsJSON(rec, svixID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return c.insertIgnore(ctx, TableContacts, contactColumns, args)
}

func (c *mysqlClient) WriteDomain(ctx context.Context, rec event.DomainRecord, svixID string) (bool, error) {
	args, err := domainArgs(rec, svixID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return c.insertIgnore(ctx, TableDomains, domainColumns, args)
}

func (c *mysqlClient) Release(ctx context.Context) error { return nil }

func (c *mysqlClient) insertIgnore(ctx context.Context, table string, columns []string, args []any) (bool, error) {
	query := fmt.Sprintf(
		"INSERT IGNORE INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders(len(columns), false),
	)
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mysql: insert into %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mysql: rows affected: %w", err)
	}
	return affected == 0, nil
}
