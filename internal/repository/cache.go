// Package repository provides the key-value cache layer in front of the
// record store: a redis-backed cache for settings and sync-task queue
// state, an in-memory equivalent, and a failover wrapper that degrades
// to memory when redis is unreachable.
package repository

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not cached.
var ErrCacheMiss = errors.New("cache miss")

// KVCache is the cache contract the settings service relies on.
type KVCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteAll(ctx context.Context) error
}
