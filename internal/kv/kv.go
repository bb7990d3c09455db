// Package kv defines the key-value substrate the dialogue context and the
// response cache are built on. Values carry a TTL; expiry is the only
// lifecycle control, there is no reaper.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the key does not exist or has expired.
var ErrNotFound = errors.New("kv: key not found")

// Store is the minimal contract the dialogue engine needs from its
// substrate. The Redis module implements it; Memory backs tests and
// single-process deployments.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// SetEx stores value under key with the given TTL. A non-positive TTL
	// stores the value without expiry.
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
