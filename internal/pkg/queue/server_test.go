package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJob struct {
	policy Policy
	handle func(ctx context.Context, t Task) error

	mu        sync.Mutex
	runs      int
	failed    int
	lastError error
}

func (j *fakeJob) Type() string   { return "fake" }
func (j *fakeJob) Policy() Policy { return j.policy }

func (j *fakeJob) Handle(ctx context.Context, t Task) error {
	j.mu.Lock()
	j.runs++
	j.mu.Unlock()
	return j.handle(ctx, t)
}

func (j *fakeJob) Failed(_ context.Context, _ Task, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.failed++
	j.lastError = err
}

func consumeNow(t *testing.T, b *MemoryBroker) Delivery {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	d, err := b.Consume(ctx)
	require.NoError(t, err)
	return d
}

func TestPolicy_Delay(t *testing.T) {
	p := Policy{Backoff: []time.Duration{time.Second, 5 * time.Second, 10 * time.Second}}
	assert.Equal(t, time.Second, p.Delay(1))
	assert.Equal(t, 5*time.Second, p.Delay(2))
	assert.Equal(t, 10*time.Second, p.Delay(3))
	assert.Equal(t, 10*time.Second, p.Delay(7))
	assert.Equal(t, time.Duration(0), Policy{}.Delay(1))
}

func TestServer_ProcessSuccess(t *testing.T) {
	b := NewMemoryBroker(8)
	defer b.Close()
	job := &fakeJob{policy: Policy{MaxAttempts: 3}, handle: func(context.Context, Task) error { return nil }}
	s := NewServer(b, Config{})
	s.Register(job)

	task, _ := NewTask("fake", nil)
	task.UniqueKey = "k"
	_, _ = b.Acquire(context.Background(), "k", time.Hour)

	s.Process(NewDelivery(task, nil))
	assert.Equal(t, 1, job.runs)
	assert.Equal(t, 0, job.failed)
	assert.Equal(t, 0, b.Len())

	acquired, _ := b.Acquire(context.Background(), "k", time.Hour)
	assert.True(t, acquired, "unique key released after success")
}

func TestServer_ProcessRetriesThenFails(t *testing.T) {
	b := NewMemoryBroker(8)
	defer b.Close()
	boom := errors.New("smtp down")
	job := &fakeJob{policy: Policy{MaxAttempts: 3}, handle: func(context.Context, Task) error { return boom }}
	s := NewServer(b, Config{})
	s.Register(job)

	task, _ := NewTask("fake", nil)
	s.Process(NewDelivery(task, nil))

	retry := consumeNow(t, b)
	assert.Equal(t, 1, retry.Task.Attempt)
	assert.Equal(t, task.ID, retry.Task.ID)
	s.Process(retry)

	last := consumeNow(t, b)
	assert.Equal(t, 2, last.Task.Attempt)
	s.Process(last)

	assert.Equal(t, 3, job.runs)
	assert.Equal(t, 1, job.failed)
	assert.ErrorIs(t, job.lastError, boom)
	assert.Equal(t, 0, b.Len())
}

func TestServer_ProcessDiscard(t *testing.T) {
	b := NewMemoryBroker(8)
	defer b.Close()
	job := &fakeJob{
		policy: Policy{MaxAttempts: 3},
		handle: func(context.Context, Task) error { return Discard(errors.New("sale gone")) },
	}
	s := NewServer(b, Config{})
	s.Register(job)

	task, _ := NewTask("fake", nil)
	s.Process(NewDelivery(task, nil))

	assert.Equal(t, 1, job.runs)
	assert.Equal(t, 0, job.failed)
	assert.Equal(t, 0, b.Len())
}

func TestServer_ProcessTimeoutAndPanic(t *testing.T) {
	b := NewMemoryBroker(8)
	defer b.Close()
	s := NewServer(b, Config{})

	slow := &fakeJob{
		policy: Policy{MaxAttempts: 1, Timeout: 10 * time.Millisecond},
		handle: func(ctx context.Context, _ Task) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	s.Register(slow)
	task, _ := NewTask("fake", nil)
	s.Process(NewDelivery(task, nil))
	assert.Equal(t, 1, slow.failed)
	assert.ErrorIs(t, slow.lastError, context.DeadlineExceeded)

	panicky := &fakeJob{
		policy: Policy{MaxAttempts: 1},
		handle: func(context.Context, Task) error { panic("nil seller") },
	}
	s.Register(panicky)
	s.Process(NewDelivery(task, nil))
	assert.Equal(t, 1, panicky.failed)
	assert.Contains(t, panicky.lastError.Error(), "nil seller")
}

func TestServer_ProcessAbandonsJobIgnoringTimeout(t *testing.T) {
	b := NewMemoryBroker(8)
	defer b.Close()
	s := NewServer(b, Config{})

	release := make(chan struct{})
	defer close(release)
	stuck := &fakeJob{
		policy: Policy{MaxAttempts: 3, Backoff: []time.Duration{time.Millisecond}, Timeout: 100 * time.Millisecond},
		handle: func(context.Context, Task) error {
			<-release
			return nil
		},
	}
	s.Register(stuck)

	task, _ := NewTask("fake", nil)
	finished := make(chan struct{})
	go func() {
		s.Process(NewDelivery(task, nil))
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Process still running after the policy timeout")
	}

	retry := consumeNow(t, b)
	assert.Equal(t, task.ID, retry.Task.ID)
	assert.Equal(t, 1, retry.Task.Attempt)
}

func TestServer_StartStop(t *testing.T) {
	b := NewMemoryBroker(8)
	defer b.Close()
	done := make(chan struct{})
	job := &fakeJob{policy: Policy{MaxAttempts: 1}, handle: func(context.Context, Task) error {
		close(done)
		return nil
	}}
	s := NewServer(b, Config{WorkerCount: 1})
	s.Register(job)
	s.Start()

	task, _ := NewTask("fake", nil)
	require.NoError(t, NewClient(b).Enqueue(context.Background(), task))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task not processed")
	}
	s.Stop()
}
