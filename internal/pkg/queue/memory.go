package queue

import (
	"context"
	"sync"
	"time"
)

// MemoryBroker keeps tasks in process. Tasks are lost on restart.
type MemoryBroker struct {
	ready chan Task
	done  chan struct{}

	mu     sync.Mutex
	timers map[string]*time.Timer
	locks  map[string]time.Time
	closed bool
}

func NewMemoryBroker(capacity int) *MemoryBroker {
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemoryBroker{
		ready:  make(chan Task, capacity),
		done:   make(chan struct{}),
		timers: make(map[string]*time.Timer),
		locks:  make(map[string]time.Time),
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, t Task, delay time.Duration) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if delay > 0 {
		key := t.ID + ":" + time.Now().String()
		b.timers[key] = time.AfterFunc(delay, func() {
			b.mu.Lock()
			delete(b.timers, key)
			b.mu.Unlock()
			_ = b.push(context.Background(), t)
		})
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()
	return b.push(ctx, t)
}

func (b *MemoryBroker) push(ctx context.Context, t Task) error {
	select {
	case b.ready <- t:
		return nil
	case <-b.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *MemoryBroker) Consume(ctx context.Context) (Delivery, error) {
	select {
	case t := <-b.ready:
		return NewDelivery(t, nil), nil
	case <-b.done:
		return Delivery{}, ErrClosed
	case <-ctx.Done():
		return Delivery{}, ctx.Err()
	}
}

// Len reports tasks ready for consumption, delayed ones excluded
func (b *MemoryBroker) Len() int {
	return len(b.ready)
}

func (b *MemoryBroker) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if expires, ok := b.locks[key]; ok && time.Now().Before(expires) {
		return false, nil
	}
	b.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (b *MemoryBroker) Release(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.locks, key)
	return nil
}

func (b *MemoryBroker) Ping(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	return nil
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for key, timer := range b.timers {
		timer.Stop()
		delete(b.timers, key)
	}
	close(b.done)
	return nil
}
