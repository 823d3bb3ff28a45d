package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisPollTimeout  = 2 * time.Second
	redisPromoteBatch = 100
	redisPromoteEvery = time.Second
)

// RedisBroker stores tasks in redis lists. Delayed tasks wait in a sorted set
// scored by their due time until a consumer promotes them. A consumed task
// sits in the processing list until it is acked.
type RedisBroker struct {
	*RedisLocker
	client *redis.Client
	name   string

	mu           sync.Mutex
	lastPromoted time.Time
}

func NewRedisBroker(client *redis.Client, name string) *RedisBroker {
	return &RedisBroker{
		RedisLocker: NewRedisLocker(client, "queue:"+name+":unique:"),
		client:      client,
		name:        name,
	}
}

func (b *RedisBroker) readyKey() string { return "queue:" + b.name }
func (b *RedisBroker) delayedKey() string { return "queue:" + b.name + ":delayed" }
func (b *RedisBroker) processingKey() string { return "queue:" + b.name + ":processing" }

func (b *RedisBroker) Publish(ctx context.Context, t Task, delay time.Duration) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	if delay > 0 {
		due := time.Now().Add(delay).UnixMilli()
		return b.client.ZAdd(ctx, b.delayedKey(), redis.Z{Score: float64(due), Member: raw}).Err()
	}
	return b.client.LPush(ctx, b.readyKey(), raw).Err()
}

func (b *RedisBroker) Consume(ctx context.Context) (Delivery, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Delivery{}, err
		}
		if err := b.promoteDue(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("Failed to promote delayed tasks", "queue", b.name, "error", err)
		}

		raw, err := b.client.BLMove(ctx, b.readyKey(), b.processingKey(), "RIGHT", "LEFT", redisPollTimeout).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if errors.Is(err, redis.ErrClosed) {
				return Delivery{}, ErrClosed
			}
			return Delivery{}, err
		}

		var t Task
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			slog.Error("Dropping malformed task", "queue", b.name, "error", err)
			b.client.LRem(ctx, b.processingKey(), 1, raw)
			continue
		}
		return NewDelivery(t, func(ctx context.Context) error {
			return b.client.LRem(ctx, b.processingKey(), 1, raw).Err()
		}), nil
	}
}

// promoteDue moves delayed tasks whose time has come to the ready list
func (b *RedisBroker) promoteDue(ctx context.Context) error {
	b.mu.Lock()
	if time.Since(b.lastPromoted) < redisPromoteEvery {
		b.mu.Unlock()
		return nil
	}
	b.lastPromoted = time.Now()
	b.mu.Unlock()

	due, err := b.client.ZRangeByScore(ctx, b.delayedKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(time.Now().UnixMilli(), 10),
		Count: redisPromoteBatch,
	}).Result()
	if err != nil {
		return err
	}

	for _, raw := range due {
		// ZRem decides which consumer owns the task
		removed, err := b.client.ZRem(ctx, b.delayedKey(), raw).Result()
		if err != nil {
			return err
		}
		if removed == 0 {
			continue
		}
		if err := b.client.LPush(ctx, b.readyKey(), raw).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Requeue moves tasks left in the processing list by a crashed worker back
// to the ready list. Call it before workers start.
func (b *RedisBroker) Requeue(ctx context.Context) (int, error) {
	moved := 0
	for {
		_, err := b.client.LMove(ctx, b.processingKey(), b.readyKey(), "RIGHT", "LEFT").Result()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, err
		}
		moved++
	}
}

func (b *RedisBroker) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close is a no-op, the redis client is owned by the caller
func (b *RedisBroker) Close() error {
	return nil
}

// RedisLocker deduplicates tasks with SETNX keys. It serves brokers that
// cannot deduplicate on their own.
type RedisLocker struct {
	client *redis.Client
	prefix string
}

func NewRedisLocker(client *redis.Client, prefix string) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, l.prefix+key, 1, ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.prefix+key).Err()
}
