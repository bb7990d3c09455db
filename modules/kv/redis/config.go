package redis

import (
	"fmt"
	"time"
)

// Config holds the Redis KV module configuration.
type Config struct {
	// Addr is the Redis host:port. Defaults to localhost:6379.
	Addr string `yaml:"addr"`

	// Password authenticates the connection. Empty means no auth.
	Password string `yaml:"password"`

	// DB selects the Redis logical database. Defaults to 0.
	DB int `yaml:"db"`

	// KeyPrefix is prepended to every key. Defaults to "cheeky:".
	KeyPrefix string `yaml:"key_prefix"`

	// PoolSize is the connection pool size. Defaults to 10.
	PoolSize int `yaml:"pool_size"`

	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

func (c *Config) defaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "cheeky:"
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

func (c *Config) validate() error {
	if c.DB < 0 {
		return fmt.Errorf("redis: db must be non-negative, got %d", c.DB)
	}
	if c.PoolSize < 0 {
		return fmt.Errorf("redis: pool_size must be non-negative, got %d", c.PoolSize)
	}
	return nil
}
