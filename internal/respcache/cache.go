// Package respcache caches generated responses keyed by a fingerprint of
// the request tuple. It only serves openers: callers are expected to skip
// it entirely once a conversation has history, because a mid-conversation
// reply depends on context the fingerprint does not capture.
package respcache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cheekylabs/cheeky/internal/kv"
)

const keyPrefix = "resp:"

// DefaultTTL bounds how long a cached response stays fresh.
const DefaultTTL = time.Hour

// Cache is a read-through response cache over a KV substrate.
type Cache struct {
	store  kv.Store
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a Cache. A ttl <= 0 falls back to DefaultTTL.
func New(store kv.Store, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{store: store, ttl: ttl, logger: logger}
}

// Lookup returns the cached response for the key, if any. Substrate errors
// are logged and reported as a miss; a degraded cache must never fail a
// chat turn.
func (c *Cache) Lookup(ctx context.Context, k Key) (string, bool) {
	val, err := c.store.Get(ctx, keyPrefix+Fingerprint(k))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			c.logger.Warn("response cache lookup failed", "error", err)
		}
		return "", false
	}
	return val, true
}

// Store saves a response under the key with the configured TTL. Failures
// are logged, not returned: losing a cache write costs a future model call
// and nothing else.
func (c *Cache) Store(ctx context.Context, k Key, response string) {
	if err := c.store.SetEx(ctx, keyPrefix+Fingerprint(k), response, c.ttl); err != nil {
		c.logger.Warn("response cache store failed", "error", err)
	}
}
