package driven

import (
	"context"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
)

// TaskQueue handles background task queuing for policy indexing.
// Implementations can use Redis (preferred) or an in-process queue.
type TaskQueue interface {
	// Enqueue adds a task to the queue for processing
	Enqueue(ctx context.Context, task *domain.Task) error

	// Dequeue retrieves the next available task for processing.
	// Blocks until a task is available or the context is cancelled.
	// The task is marked as processing and will not be returned to
	// other workers.
	Dequeue(ctx context.Context) (*domain.Task, error)

	// DequeueWithTimeout retrieves the next available task, waiting up to
	// timeout seconds. Returns nil, nil if the timeout is reached with no
	// tasks available.
	DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error)

	// Ack acknowledges successful completion of a task
	Ack(ctx context.Context, taskID string) error

	// Nack indicates task processing failed. The task is retried with
	// backoff, or moved to failed state once max retries are exceeded.
	Nack(ctx context.Context, taskID string, reason string) error

	// GetTask retrieves a task by ID (for status checking)
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)

	// Ping checks if the queue backend is healthy
	Ping(ctx context.Context) error

	// Close cleans up resources
	Close() error
}
