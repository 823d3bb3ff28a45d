package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// uniqueTTL bounds how long a unique key blocks duplicates when the task
// holding it is never finished
const uniqueTTL = 24 * time.Hour

var (
	ErrClosed = errors.New("queue: broker closed")

	// ErrDiscard marks a permanent failure: the task is dropped without retry
	ErrDiscard = errors.New("queue: task discarded")
)

// Discard wraps err so that the server drops the task instead of retrying
func Discard(err error) error {
	return fmt.Errorf("%w: %w", ErrDiscard, err)
}

type Task struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Attempt    int             `json:"attempt"` // failed runs so far
	UniqueKey  string          `json:"unique_key,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

func NewTask(taskType string, payload any) (Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Task{}, fmt.Errorf("encode %s payload: %w", taskType, err)
	}
	return Task{
		ID:         uuid.NewString(),
		Type:       taskType,
		Payload:    raw,
		EnqueuedAt: time.Now(),
	}, nil
}

// Decode unmarshals the payload into v
func (t Task) Decode(v any) error {
	if err := json.Unmarshal(t.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", t.Type, err)
	}
	return nil
}

// Delivery is a task handed to a worker. Ack removes it from the broker.
type Delivery struct {
	Task Task
	ack  func(ctx context.Context) error
}

func NewDelivery(task Task, ack func(ctx context.Context) error) Delivery {
	return Delivery{Task: task, ack: ack}
}

func (d Delivery) Ack(ctx context.Context) error {
	if d.ack == nil {
		return nil
	}
	return d.ack(ctx)
}

// Broker is an at-least-once transport for tasks
type Broker interface {
	// Publish makes t available to consumers after delay
	Publish(ctx context.Context, t Task, delay time.Duration) error

	// Consume blocks until a task is available, ctx is done or the broker closes
	Consume(ctx context.Context) (Delivery, error)

	Ping(ctx context.Context) error
	Close() error
}

// Locker is implemented by brokers that can deduplicate tasks by UniqueKey
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Client struct {
	broker Broker
}

func NewClient(broker Broker) *Client {
	return &Client{broker: broker}
}

// Enqueue publishes t. A task whose UniqueKey is already held is dropped
// when the broker supports deduplication, and published anyway otherwise.
func (c *Client) Enqueue(ctx context.Context, t Task) error {
	if t.UniqueKey != "" {
		if locker, ok := c.broker.(Locker); ok {
			acquired, err := locker.Acquire(ctx, t.UniqueKey, uniqueTTL)
			if err != nil {
				return fmt.Errorf("acquire unique key: %w", err)
			}
			if !acquired {
				slog.Info("Duplicate task skipped", "type", t.Type, "unique_key", t.UniqueKey)
				return nil
			}
		}
	}

	if err := c.broker.Publish(ctx, t, 0); err != nil {
		if t.UniqueKey != "" {
			releaseUnique(ctx, c.broker, t)
		}
		return fmt.Errorf("publish %s task: %w", t.Type, err)
	}
	slog.Debug("Task enqueued", "id", t.ID, "type", t.Type)
	return nil
}

func releaseUnique(ctx context.Context, broker Broker, t Task) {
	locker, ok := broker.(Locker)
	if !ok || t.UniqueKey == "" {
		return
	}
	if err := locker.Release(ctx, t.UniqueKey); err != nil {
		slog.Warn("Failed to release unique key", "type", t.Type, "unique_key", t.UniqueKey, "error", err)
	}
}
