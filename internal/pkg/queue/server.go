package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Policy bounds the retries of one task type
type Policy struct {
	MaxAttempts int
	// Backoff is the delay before each retry; the last entry repeats
	Backoff []time.Duration
	// Timeout caps a single run, zero means none
	Timeout time.Duration
}

// Delay returns the wait before retry number attempt (1-based)
func (p Policy) Delay(attempt int) time.Duration {
	if len(p.Backoff) == 0 || attempt < 1 {
		return 0
	}
	if attempt > len(p.Backoff) {
		return p.Backoff[len(p.Backoff)-1]
	}
	return p.Backoff[attempt-1]
}

// Job handles every task of one type
type Job interface {
	Type() string
	Policy() Policy
	Handle(ctx context.Context, t Task) error
	// Failed is called once the task ran out of attempts
	Failed(ctx context.Context, t Task, err error)
}

// Config holds worker pool configuration
type Config struct {
	WorkerCount int // default: 2
}

// Server runs a pool of workers consuming from a broker
type Server struct {
	broker Broker
	config Config

	mu      sync.RWMutex
	jobs    map[string]Job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewServer(broker Broker, cfg Config) *Server {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		broker: broker,
		config: cfg,
		jobs:   make(map[string]Job),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds a job; registering a type twice replaces the first job
func (s *Server) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Type()] = job
	slog.Info("Queue job registered", "type", job.Type(), "max_attempts", job.Policy().MaxAttempts)
}

// Start launches the workers
func (s *Server) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	for i := 0; i < s.config.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
	slog.Info("Queue server started", "workers", s.config.WorkerCount, "jobs", len(s.jobs))
}

// Stop waits for in-flight tasks to finish
func (s *Server) Stop() {
	slog.Info("Stopping queue server...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Queue server stopped")
}

func (s *Server) worker(id int) {
	defer s.wg.Done()

	for {
		delivery, err := s.broker.Consume(s.ctx)
		if err != nil {
			if s.ctx.Err() != nil || errors.Is(err, ErrClosed) {
				return
			}
			slog.Error("Queue consume failed", "worker", id, "error", err)
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		s.Process(delivery)
	}
}

// Process runs one delivery to completion: success, discard, retry or
// permanent failure. It is exported for callers that drive a broker by hand.
func (s *Server) Process(d Delivery) {
	ctx := context.Background()
	t := d.Task

	s.mu.RLock()
	job, ok := s.jobs[t.Type]
	s.mu.RUnlock()
	if !ok {
		slog.Error("No job registered for task, dropping", "id", t.ID, "type", t.Type)
		s.ack(ctx, d)
		return
	}

	policy := job.Policy()
	start := time.Now()
	err := s.run(ctx, job, policy, t)

	switch {
	case err == nil:
		slog.Info("Task completed", "id", t.ID, "type", t.Type, "attempt", t.Attempt+1, "duration", time.Since(start))
		releaseUnique(ctx, s.broker, t)

	case errors.Is(err, ErrDiscard):
		slog.Warn("Task discarded", "id", t.ID, "type", t.Type, "attempt", t.Attempt+1, "error", err)
		releaseUnique(ctx, s.broker, t)

	case t.Attempt+1 >= policy.MaxAttempts:
		slog.Error("Task failed permanently", "id", t.ID, "type", t.Type, "attempts", t.Attempt+1, "error", err)
		job.Failed(ctx, t, err)
		releaseUnique(ctx, s.broker, t)

	default:
		retry := t
		retry.Attempt++
		delay := policy.Delay(retry.Attempt)
		slog.Warn("Task failed, retrying", "id", t.ID, "type", t.Type, "attempt", retry.Attempt, "delay", delay, "error", err)
		if pubErr := s.broker.Publish(ctx, retry, delay); pubErr != nil {
			slog.Error("Failed to reschedule task", "id", t.ID, "type", t.Type, "error", pubErr)
			job.Failed(ctx, t, fmt.Errorf("reschedule: %w (last error: %w)", pubErr, err))
			releaseUnique(ctx, s.broker, t)
		}
	}

	s.ack(ctx, d)
}

// run executes the job under its timeout, turning panics into errors. A job
// still running at the timeout is abandoned and reported as failed.
func (s *Server) run(ctx context.Context, job Job, policy Policy, t Task) error {
	if policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, policy.Timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- fmt.Errorf("job panicked: %v", p)
			}
		}()
		done <- job.Handle(ctx, t)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("job timed out after %s: %w", policy.Timeout, ctx.Err())
	}
}

func (s *Server) ack(ctx context.Context, d Delivery) {
	if err := d.Ack(ctx); err != nil {
		slog.Error("Failed to ack task", "id", d.Task.ID, "type", d.Task.Type, "error", err)
	}
}
