package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/telhawk-systems/resend-sink/internal/event"
)

// RedisConfig holds the connection parameters for the redis connector.
type RedisConfig struct {
	// URL is a redis connection string (redis://host:6379/0).
	URL string
	// KeyPrefix namespaces the sink's keys. Defaults to "resend".
	KeyPrefix string
}

// Redis writes events as JSON blobs under one key per delivery. Idempotency
// mechanism: SET NX — the server only creates the key when it does not
// exist yet, atomically, so a redelivery can never overwrite the first
// write's value.
type Redis struct {
	cfg RedisConfig

	mu     sync.Mutex
	client *redis.Client
}

func NewRedis(cfg RedisConfig) *Redis {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "resend"
	}
	return &Redis{cfg: cfg}
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Acquire(ctx context.Context) (Client, error) {
	client, err := r.getClient(ctx)
	if err != nil {
		return nil, err
	}
	return &redisStoreClient{client: client, prefix: r.cfg.KeyPrefix}, nil
}

func (r *Redis) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		err := r.client.Close()
		r.client = nil
		return err
	}
	return nil
}

func (r *Redis) getClient(ctx context.Context) (*redis.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return r.client, nil
	}
	if r.cfg.URL == "" {
		return nil, fmt.Errorf("%w: redis url", ErrMissingConfig)
	}

	opt, err := redis.ParseURL(r.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	r.client = client
	return r.client, nil
}

type redisStoreClient struct {
	client *redis.Client
	prefix string
}

func (c *redisStoreClient) WriteEmail(ctx context.Context, rec event.EmailRecord, svixID string) (bool, error) {
	return c.setNX(ctx, TableEmails, svixID, newEmailDoc(rec, svixID, time.Now().UTC()))
}

func (c *redisStoreClient) WriteContact(ctx context.Context, rec event.ContactRecord, svixID string) (bool, error) {
	return c.setNX(ctx, TableContacts, svixID, newContactDoc(rec, svixID, time.Now().UTC()))
}

func (c *redisStoreClient) WriteDomain(ctx context.Context, rec event.DomainRecord, svixID string) (bool, error) {
	return c.setNX(ctx, TableDomains, svixID, newDomainDoc(rec, svixID, time.Now().UTC()))
}

func (c *redisStoreClient) Release(ctx context.Context) error { return nil }

func (c *redisStoreClient) setNX(ctx context.Context, table, svixID string, doc any) (bool, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("redis: marshal document: %w", err)
	}

	key := fmt.Sprintf("%s:%s:%s", c.prefix, table, svixID)
	created, err := c.client.SetNX(ctx, key, payload, 0).Result()
	if err != nil {
		return false, fmt.Errorf("redis: setnx %s: %w", key, err)
	}
	return !created, nil
}
