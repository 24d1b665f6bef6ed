package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a cache backed by Redis. Values are JSON-encoded unless a
// different Marshaler is supplied.
type Redis[V any] struct {
	client     redis.UniversalClient
	marshaler  Marshaler[V]
	prefix     string
	defaultTTL time.Duration
	ownsClient bool
}

// RedisConfig holds Redis cache settings.
type RedisConfig struct {
	// Prefix namespaces keys as "{prefix}:{key}".
	Prefix string
	// DefaultTTL applies when Set is called with a zero TTL. Default: 1 hour.
	DefaultTTL time.Duration
	// CloseClient makes Close also close the underlying client.
	CloseClient bool
}

// NewRedis creates a Redis-backed cache on top of a client from pkg/redis.Open.
// A nil Marshaler selects JSON.
//
// Example:
//
//	client, err := redis.Open(ctx, os.Getenv("REDIS_URL"))
//	c := cache.NewRedis[string](client, nil, cache.RedisConfig{Prefix: "newsletter"})
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], cfg RedisConfig) *Redis[V] {
	if m == nil {
		m = jsonMarshaler[V]{}
	}
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = time.Hour
	}

	return &Redis[V]{
		client:     client,
		marshaler:  m,
		prefix:     cfg.Prefix,
		defaultTTL: cfg.DefaultTTL,
		ownsClient: cfg.CloseClient,
	}
}

// Get retrieves a value by key.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, errors.Join(ErrBackend, err)
	}

	return r.marshaler.Unmarshal(data)
}

// Set stores a value. A negative TTL stores the key without expiration.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return err
	}

	if ttl == 0 {
		ttl = r.defaultTTL
	}

	// Redis treats 0 as "no expiration".
	if err := r.client.Set(ctx, r.key(key), data, max(ttl, 0)).Err(); err != nil {
		return errors.Join(ErrBackend, err)
	}
	return nil
}

// Has reports whether key exists.
func (r *Redis[V]) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, errors.Join(ErrBackend, err)
	}
	return n > 0, nil
}

// Delete removes a key.
func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return errors.Join(ErrBackend, err)
	}
	return nil
}

// Close closes the client only when the cache was configured to own it.
func (r *Redis[V]) Close() error {
	if !r.ownsClient {
		return nil
	}
	return r.client.Close()
}

func (r *Redis[V]) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

var _ Cache[any] = (*Redis[any])(nil)
