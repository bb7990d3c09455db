// Package redis implements a Redis-backed KV substrate module. Conversation
// windows, summaries, and cached responses all live here with per-key TTLs,
// so a shared Redis lets multiple bot instances serve the same users.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/cheekylabs/cheeky/internal/core"
	"github.com/cheekylabs/cheeky/internal/kv"
)

func init() {
	core.RegisterModule(&Module{})
}

// Compile-time interface guards.
var (
	_ kv.Store          = (*redisStore)(nil)
	_ core.Configurable = (*Module)(nil)
	_ core.Provisioner  = (*Module)(nil)
	_ core.Validator    = (*Module)(nil)
	_ core.Stopper      = (*Module)(nil)
)

// Module implements a Redis-backed kv.Store module.
type Module struct {
	config Config
	client *redis.Client
	logger *slog.Logger
	store  *redisStore
}

// redisStore implements kv.Store over a go-redis client.
type redisStore struct {
	client    *redis.Client
	keyPrefix string
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "kv.redis",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return fmt.Errorf("redis: decode config: %w", err)
	}
	m.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.config.defaults()
	m.logger = ctx.Logger

	m.client = redis.NewClient(&redis.Options{
		Addr:         m.config.Addr,
		Password:     m.config.Password,
		DB:           m.config.DB,
		PoolSize:     m.config.PoolSize,
		DialTimeout:  m.config.DialTimeout,
		ReadTimeout:  m.config.ReadTimeout,
		WriteTimeout: m.config.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), m.config.DialTimeout)
	defer cancel()
	if err := m.client.Ping(pingCtx).Err(); err != nil {
		_ = m.client.Close()
		return fmt.Errorf("redis: connect %s: %w", m.config.Addr, err)
	}

	m.store = &redisStore{client: m.client, keyPrefix: m.config.KeyPrefix}
	ctx.RegisterService("kv.store", m.store)

	m.logger.Info("redis kv module provisioned",
		"addr", m.config.Addr,
		"db", m.config.DB,
		"key_prefix", m.config.KeyPrefix,
	)

	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	return m.config.validate()
}

// Stop implements core.Stopper.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("redis kv module stopping")
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// Store returns the kv.Store implementation.
func (m *Module) Store() kv.Store {
	return m.store
}

// Get implements kv.Store.
func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", kv.ErrNotFound
		}
		return "", fmt.Errorf("redis: get %s: %w", key, err)
	}
	return val, nil
}

// SetEx implements kv.Store. A ttl <= 0 stores the key without expiry.
func (s *redisStore) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Delete implements kv.Store. All keys go in one DEL; missing keys are a
// no-op.
func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, s.prefixed(keys)...).Err(); err != nil {
		return fmt.Errorf("redis: delete %v: %w", keys, err)
	}
	return nil
}

// prefixed maps keys into this store's namespace.
func (s *redisStore) prefixed(keys []string) []string {
	out := make([]string, len(keys))
	for i, key := range keys {
		out[i] = s.keyPrefix + key
	}
	return out
}
