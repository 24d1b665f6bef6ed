package newsletter

import (
	"context"
	"time"

	"github.com/dmitrymomot/newsletter/pkg/cache"
)

// DefaultGuardTTL keeps a send record long enough to cover one date in any timezone.
const DefaultGuardTTL = 48 * time.Hour

// Guard remembers which digests were already delivered.
type Guard interface {
	Sent(ctx context.Context, key string) (bool, error)
	MarkSent(ctx context.Context, key string) error
}

// CacheGuard stores send records in a cache.Cache.
type CacheGuard struct {
	cache cache.Cache[string]
	ttl   time.Duration
}

// NewCacheGuard creates a Guard over c. A non-positive ttl selects DefaultGuardTTL.
func NewCacheGuard(c cache.Cache[string], ttl time.Duration) *CacheGuard {
	if ttl <= 0 {
		ttl = DefaultGuardTTL
	}
	return &CacheGuard{cache: c, ttl: ttl}
}

// Sent reports whether key was marked within the TTL.
func (g *CacheGuard) Sent(ctx context.Context, key string) (bool, error) {
	return g.cache.Has(ctx, key)
}

// MarkSent records key as delivered.
func (g *CacheGuard) MarkSent(ctx context.Context, key string) error {
	return g.cache.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), g.ttl)
}

var _ Guard = (*CacheGuard)(nil)
