package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) key(key string) string    { return c.prefix + key }
func (c *RedisCache) tagKey(tag string) string { return c.prefix + "tag:" + tag }

func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, c.key(key), raw, ttl)
		for _, tag := range tags {
			pipe.SAdd(ctx, c.tagKey(tag), c.key(key))
			if ttl > 0 {
				// the tag set outlives its members by at most one ttl
				pipe.Expire(ctx, c.tagKey(tag), ttl*2)
			}
		}
		return nil
	})
	return err
}

func (c *RedisCache) FlushTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		keys, err := c.client.SMembers(ctx, c.tagKey(tag)).Result()
		if err != nil {
			return err
		}
		keys = append(keys, c.tagKey(tag))
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close is a no-op, the redis client is owned by the caller
func (c *RedisCache) Close() error {
	return nil
}
