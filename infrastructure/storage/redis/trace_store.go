// Package redis provides Redis-backed storage implementations.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/agentloop/domain/trace"
)

// Config holds Redis connection configuration.
type Config struct {
	// Address is the Redis server address (host:port).
	Address string

	// Password for authentication (optional).
	Password string

	// DB selects the Redis database index.
	DB int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// KeyPrefix is prepended to all keys (for namespacing).
	KeyPrefix string

	// TTL expires stored traces. Zero keeps them forever.
	TTL time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:     "localhost:6379",
		DialTimeout: 5 * time.Second,
		PoolSize:    10,
		KeyPrefix:   "agentloop:",
	}
}

// ConfigOption configures the Redis connection.
type ConfigOption func(*Config)

// WithAddress sets the Redis server address.
func WithAddress(addr string) ConfigOption {
	return func(c *Config) {
		c.Address = addr
	}
}

// WithPassword sets the authentication password.
func WithPassword(password string) ConfigOption {
	return func(c *Config) {
		c.Password = password
	}
}

// WithDB sets the database index.
func WithDB(db int) ConfigOption {
	return func(c *Config) {
		c.DB = db
	}
}

// WithKeyPrefix sets the key prefix for namespacing.
func WithKeyPrefix(prefix string) ConfigOption {
	return func(c *Config) {
		c.KeyPrefix = prefix
	}
}

// WithTTL sets the trace expiration.
func WithTTL(ttl time.Duration) ConfigOption {
	return func(c *Config) {
		c.TTL = ttl
	}
}

// TraceStore is a Redis-backed implementation of trace.Store.
type TraceStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewTraceStore creates a new Redis trace store with the given configuration.
func NewTraceStore(cfg Config, opts ...ConfigOption) (*TraceStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Address,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
		PoolSize:    cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(trace.ErrConnectionFailed, err)
	}

	return &TraceStore{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.TTL,
	}, nil
}

// NewTraceStoreFromClient creates a trace store from an existing client.
func NewTraceStoreFromClient(client *redis.Client, keyPrefix string, ttl time.Duration) *TraceStore {
	return &TraceStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (s *TraceStore) key(id string) string {
	return s.keyPrefix + "trace:" + id
}

// Save persists a trace.
func (s *TraceStore) Save(ctx context.Context, t *trace.Trace) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.ID == "" {
		return trace.ErrInvalidTraceID
	}

	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, s.key(t.ID), data, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return trace.ErrTraceExists
	}
	return nil
}

// Get retrieves a trace by ID.
func (s *TraceStore) Get(ctx context.Context, id string) (*trace.Trace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, trace.ErrInvalidTraceID
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, trace.ErrTraceNotFound
		}
		return nil, err
	}

	var t trace.Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all stored trace IDs.
func (s *TraceStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := s.keyPrefix + "trace:"
	var ids []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(prefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Delete removes a trace by ID.
func (s *TraceStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return trace.ErrInvalidTraceID
	}

	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return trace.ErrTraceNotFound
	}
	return nil
}

// Close closes the Redis client.
func (s *TraceStore) Close() error {
	return s.client.Close()
}

var _ trace.Store = (*TraceStore)(nil)
