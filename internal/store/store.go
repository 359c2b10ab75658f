// Package store defines the idempotent connector contract and one concrete
// connector per supported backend.
//
// Every connector upholds the same write contract: a write for an svix_id
// already present in storage succeeds as a no-op without duplicating or
// overwriting the existing row. How that is enforced differs per backend:
//
//   - conflict-ignore insert guarded by a store-side uniqueness constraint
//     (postgres, mysql, sqlite, opensearch, redis)
//   - conditional merge that inserts only when no matching key exists
//     (warehouse; weaker guarantee under concurrent duplicate delivery)
//
// Application-level check-then-insert is permitted by the contract for
// stores with no race-free alternative, but no bundled connector needs it.
package store

import (
	"context"
	"errors"

	"github.com/telhawk-systems/resend-sink/internal/event"
)

// Table names each backend is expected to provide, with a unique constraint
// (or logical equivalent) on svix_id. See schemas/ for reference DDL.
const (
	TableEmails   = "resend_wh_emails"
	TableContacts = "resend_wh_contacts"
	TableDomains  = "resend_wh_domains"
)

var (
	// ErrMissingConfig means a required connection parameter is absent.
	// Raised at client acquisition, not at process start.
	ErrMissingConfig = errors.New("store: missing required configuration")
)

// Client is an acquired connection or session against one backend. Writes
// return dup=true when the row already existed and the write was suppressed
// as an idempotent no-op; that is a success, not an error.
type Client interface {
	WriteEmail(ctx context.Context, rec event.EmailRecord, svixID string) (dup bool, err error)
	WriteContact(ctx context.Context, rec event.ContactRecord, svixID string) (dup bool, err error)
	WriteDomain(ctx context.Context, rec event.DomainRecord, svixID string) (dup bool, err error)

	// Release tears the client down. Pool-backed connectors treat this as
	// a no-op and keep the pool for the next request. Runs on every exit
	// path; a release failure is logged by the caller and never masks
	// the write outcome.
	Release(ctx context.Context) error
}

// Connector produces clients for one backend. Acquisition validates
// configuration presence and connectivity; failures are fatal for the
// request and are never retried here.
type Connector interface {
	Name() string
	Acquire(ctx context.Context) (Client, error)

	// Close releases backend resources held across requests
	// (connection pools). Called once at shutdown.
	Close() error
}
