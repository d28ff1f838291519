package repository

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// FailoverCache serves from the primary cache until it errors, then
// degrades to the fallback and probes the primary again after a minute.
type FailoverCache struct {
	primary   KVCache
	fallback  KVCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverCache(primary, fallback KVCache, logger *zerolog.Logger) *FailoverCache {
	return &FailoverCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FailoverCache) markDown(err error) {
	c.logger.Error().Err(err).Msg("Primary cache failed, falling back to memory")
	c.isDown.Store(true)
	c.lastCheck = time.Now()
}

func (c *FailoverCache) Get(ctx context.Context, key string) (string, error) {
	if !c.isDown.Load() {
		val, err := c.primary.Get(ctx, key)
		if err == nil || errors.Is(err, ErrCacheMiss) {
			return val, err
		}
		c.markDown(err)
	}

	// Try to recover after 1 minute
	if c.isDown.Load() && time.Since(c.lastCheck) > time.Minute {
		val, err := c.primary.Get(ctx, key)
		if err == nil || errors.Is(err, ErrCacheMiss) {
			c.isDown.Store(false)
			return val, err
		}
		c.lastCheck = time.Now()
	}

	return c.fallback.Get(ctx, key)
}

func (c *FailoverCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if !c.isDown.Load() {
		err := c.primary.Set(ctx, key, value, ttl)
		if err == nil {
			return nil
		}
		c.markDown(err)
	}

	return c.fallback.Set(ctx, key, value, ttl)
}

func (c *FailoverCache) Delete(ctx context.Context, key string) error {
	if !c.isDown.Load() {
		err := c.primary.Delete(ctx, key)
		if err == nil {
			return c.fallback.Delete(ctx, key)
		}
		c.markDown(err)
	}

	return c.fallback.Delete(ctx, key)
}

func (c *FailoverCache) DeleteAll(ctx context.Context) error {
	if !c.isDown.Load() {
		err := c.primary.DeleteAll(ctx)
		if err == nil {
			return c.fallback.DeleteAll(ctx)
		}
		c.markDown(err)
	}

	return c.fallback.DeleteAll(ctx)
}
