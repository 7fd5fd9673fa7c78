// Package memory implements the task queue in process, used when no Redis
// instance is configured. Tasks do not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TaskQueue = (*Queue)(nil)

// pollInterval is how often a blocked Dequeue re-checks for ready tasks
const pollInterval = 100 * time.Millisecond

// Queue is an in-process TaskQueue. Retry scheduling honours each task's
// ScheduledFor timestamp; a Nacked task becomes visible again once its
// backoff has elapsed.
type Queue struct {
	mu      sync.Mutex
	pending []*domain.Task
	tasks   map[string]*domain.Task
	closed  bool
}

// NewQueue creates an empty in-process queue
func NewQueue() *Queue {
	return &Queue{
		tasks: make(map[string]*domain.Task),
	}
}

// Enqueue adds a task to the queue
func (q *Queue) Enqueue(ctx context.Context, task *domain.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return domain.ErrInvalidInput
	}
	q.pending = append(q.pending, task)
	q.tasks[task.ID] = task
	return nil
}

// Dequeue blocks until a task is ready or the context is cancelled.
// Returns (nil, nil) on cancellation.
func (q *Queue) Dequeue(ctx context.Context) (*domain.Task, error) {
	for {
		if task := q.takeReady(); task != nil {
			return task, nil
		}
		select {
		case <-ctx.Done():
			return nil, nil
		case <-time.After(pollInterval):
		}
	}
}

// DequeueWithTimeout waits up to timeout seconds for a ready task.
// Returns (nil, nil) when nothing becomes available.
func (q *Queue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error) {
	deadline := time.Now().Add(time.Duration(timeout) * time.Second)
	for {
		if task := q.takeReady(); task != nil {
			return task, nil
		}
		if !time.Now().Before(deadline) {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, nil
		case <-time.After(pollInterval):
		}
	}
}

// Ack marks a task as completed
func (q *Queue) Ack(ctx context.Context, taskID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	task, ok := q.tasks[taskID]
	if !ok {
		return domain.ErrNotFound
	}
	task.MarkCompleted()
	return nil
}

// Nack reschedules a task with backoff, or marks it failed once its
// attempts are exhausted
func (q *Queue) Nack(ctx context.Context, taskID string, reason string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	task, ok := q.tasks[taskID]
	if !ok {
		return domain.ErrNotFound
	}
	if task.CanRetry() {
		task.Retry(reason)
		q.pending = append(q.pending, task)
	} else {
		task.MarkFailed(reason)
	}
	return nil
}

// GetTask retrieves a task by ID
func (q *Queue) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	task, ok := q.tasks[taskID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

// Ping always succeeds for the in-process queue
func (q *Queue) Ping(ctx context.Context) error {
	return nil
}

// Close stops accepting new tasks
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}

// takeReady removes and returns the first ready pending task, if any
func (q *Queue) takeReady() *domain.Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, task := range q.pending {
		if task.IsReady() {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			task.MarkProcessing()
			return task
		}
	}
	return nil
}
