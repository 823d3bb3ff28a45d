package cache

import (
	"context"
	"log/slog"
	"time"
)

// Cache stores JSON encoded values. Tags group keys so they can be
// invalidated together.
type Cache interface {
	// Get decodes the value under key into dest and reports whether it was found
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error
	// FlushTags removes every key stored with any of tags
	FlushTags(ctx context.Context, tags ...string) error
	Ping(ctx context.Context) error
	Close() error
}

// Remember returns the cached value under key, or calls load and caches its
// result. Cache failures are logged and never fail the call.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, tags []string, load func() (T, error)) (T, error) {
	var cached T
	found, err := c.Get(ctx, key, &cached)
	if err != nil {
		slog.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}
	if found {
		return cached, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if err := c.Set(ctx, key, value, ttl, tags...); err != nil {
		slog.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return value, nil
}

// Flush is FlushTags with the error logged instead of returned
func Flush(ctx context.Context, c Cache, tags ...string) {
	if err := c.FlushTags(ctx, tags...); err != nil {
		slog.WarnContext(ctx, "cache flush failed", "tags", tags, "error", err)
	}
}
