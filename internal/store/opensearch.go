package store

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"github.com/opensearch-project/opensearch-go/v2/opensearchutil"

	"github.com/telhawk-systems/resend-sink/internal/event"
)

// OpenSearchConfig holds the connection parameters for the opensearch
// connector.
type OpenSearchConfig struct {
	URL           string
	Username      string
	Password      string
	TLSSkipVerify bool
}

// OpenSearch writes events as documents keyed by svix_id. Idempotency
// mechanism: create-only indexing (`op_type=create`) — the engine enforces
// document-ID uniqueness and answers 409 for a redelivery, which the client
// treats as the idempotent no-op.
type OpenSearch struct {
	cfg OpenSearchConfig

	mu     sync.Mutex
	client *opensearch.Client
}

func NewOpenSearch(cfg OpenSearchConfig) *OpenSearch {
	return &OpenSearch{cfg: cfg}
}

func (o *OpenSearch) Name() string { return "opensearch" }

func (o *OpenSearch) Acquire(ctx context.Context) (Client, error) {
	client, err := o.getClient(ctx)
	if err != nil {
		return nil, err
	}
	return &openSearchClient{client: client}, nil
}

// Close is a no-op; the underlying transport holds no resources that need
// explicit teardown.
func (o *OpenSearch) Close() error { return nil }

func (o *OpenSearch) getClient(ctx context.Context) (*opensearch.Client, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.client != nil {
		return o.client, nil
	}
	if o.cfg.URL == "" {
		return nil, fmt.Errorf("%w: opensearch url", ErrMissingConfig)
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{o.cfg.URL},
		Username:  o.cfg.Username,
		Password:  o.cfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: o.cfg.TLSSkipVerify,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("opensearch: create client: %w", err)
	}

	o.client = client
	return o.client, nil
}

type openSearchClient struct {
	client *opensearch.Client
}

func (c *openSearchClient) WriteEmail(ctx context.Context, rec event.EmailRecord, svixID string) (bool, error) {
	return c.createDoc(ctx, TableEmails, svixID, newEmailDoc(rec, svixID, time.Now().UTC()))
}

func (c *openSearchClient) WriteContact(ctx context.Context, rec event.ContactRecord, svixID string) (bool, error) {
	return c.createDoc(ctx, TableContacts, svixID, newContactDoc(rec, svixID, time.Now().UTC()))
}

func (c *openSearchClient) WriteDomain(ctx context.Context, rec event.DomainRecord, svixID string) (bool, error) {
	return c.createDoc(ctx, TableDomains, svixID, newDomainDoc(rec, svixID, time.Now().UTC()))
}

func (c *openSearchClient) Release(ctx context.Context) error { return nil }

func (c *openSearchClient) createDoc(ctx context.Context, index, svixID string, doc any) (bool, error) {
	req := opensearchapi.CreateRequest{
		Index:      index,
		DocumentID: svixID,
		Body:       opensearchutil.NewJSONReader(doc),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return false, fmt.Errorf("opensearch: create in %s: %w", index, err)
	}
	defer res.Body.Close()

	// 409 means a document with this svix_id already exists.
	if res.StatusCode == http.StatusConflict {
		io.Copy(io.Discard, res.Body)
		return true, nil
	}
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return false, fmt.Errorf("opensearch: create in %s: %s: %s", index, res.Status(), body)
	}

	io.Copy(io.Discard, res.Body)
	return false, nil
}
