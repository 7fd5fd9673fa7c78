// Package worker runs the background indexing loop that keeps the vector
// index in step with the policy store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven"
	"github.com/custodia-labs/veridoc-core/internal/runtime"
	"github.com/custodia-labs/veridoc-core/internal/textproc"
)

// Worker processes policy indexing tasks from the task queue
type Worker struct {
	taskQueue   driven.TaskQueue
	policyStore driven.PolicyStore
	services    *runtime.Services
	logger      *slog.Logger

	// Configuration
	concurrency    int
	dequeueTimeout int // seconds

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Config holds configuration for the worker
type Config struct {
	TaskQueue      driven.TaskQueue
	PolicyStore    driven.PolicyStore
	Services       *runtime.Services
	Logger         *slog.Logger
	Concurrency    int // Number of concurrent task processors
	DequeueTimeout int // Seconds to wait for a task before checking again
}

// New creates a new indexing worker
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	dequeueTimeout := cfg.DequeueTimeout
	if dequeueTimeout <= 0 {
		dequeueTimeout = 5
	}

	return &Worker{
		taskQueue:      cfg.TaskQueue,
		policyStore:    cfg.PolicyStore,
		services:       cfg.Services,
		logger:         logger,
		concurrency:    concurrency,
		dequeueTimeout: dequeueTimeout,
	}
}

// Start begins the worker loop.
// It runs until Stop is called or context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("worker starting",
		"concurrency", w.concurrency,
		"dequeue_timeout", w.dequeueTimeout,
	)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processLoop(ctx, workerID)
		}(i)
	}

	go func() {
		wg.Wait()
		close(w.doneCh)
	}()

	return nil
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("worker stopped")
}

// Wait blocks until the worker stops
func (w *Worker) Wait() {
	<-w.doneCh
}

// processLoop is the main processing loop for a worker goroutine
func (w *Worker) processLoop(ctx context.Context, workerID int) {
	logger := w.logger.With("worker_id", workerID)
	logger.Info("worker goroutine started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker context cancelled")
			return
		case <-w.stopCh:
			logger.Info("worker stop signal received")
			return
		default:
		}

		task, err := w.taskQueue.DequeueWithTimeout(ctx, w.dequeueTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error("failed to dequeue task", "error", err)
			time.Sleep(time.Second) // Back off on error
			continue
		}

		if task == nil {
			continue
		}

		w.processTask(ctx, task, logger)
	}
}

// processTask processes a single task
func (w *Worker) processTask(ctx context.Context, task *domain.Task, logger *slog.Logger) {
	logger = logger.With("task_id", task.ID, "task_type", task.Type, "policy_id", task.PolicyID())
	logger.Info("processing task")

	startTime := time.Now()
	var err error

	switch task.Type {
	case domain.TaskTypeIndexPolicy:
		err = w.handleIndexPolicy(ctx, task)
	case domain.TaskTypeDeletePolicyIndex:
		err = w.handleDeletePolicyIndex(ctx, task)
	default:
		err = fmt.Errorf("unknown task type: %s", task.Type)
	}

	duration := time.Since(startTime)

	if err != nil {
		logger.Error("task failed",
			"duration", duration,
			"error", err,
		)

		if nackErr := w.taskQueue.Nack(ctx, task.ID, err.Error()); nackErr != nil {
			logger.Error("failed to nack task", "nack_error", nackErr)
		}
		return
	}

	logger.Info("task completed", "duration", duration)

	if ackErr := w.taskQueue.Ack(ctx, task.ID); ackErr != nil {
		logger.Error("failed to ack task", "ack_error", ackErr)
	}
}

// handleIndexPolicy chunks a policy and indexes it for retrieval.
// A policy deleted before its task ran is treated as success.
func (w *Worker) handleIndexPolicy(ctx context.Context, task *domain.Task) error {
	policyID := task.PolicyID()
	if policyID == "" {
		return fmt.Errorf("policy_id not found in task payload")
	}

	vectorSearch := w.services.VectorSearch()
	if vectorSearch == nil {
		return domain.ErrRetrievalUnavailable
	}

	policy, err := w.policyStore.Get(ctx, policyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load policy: %w", err)
	}

	pieces := textproc.Chunk(policy.Content, textproc.DefaultMaxChunkSize, textproc.DefaultOverlap)
	chunks := make([]domain.Chunk, len(pieces))
	for i, content := range pieces {
		chunks[i] = domain.Chunk{
			Content:  content,
			PolicyID: policy.ID,
			Position: i,
		}
	}

	if err := vectorSearch.Index(ctx, policy, chunks); err != nil {
		return fmt.Errorf("failed to index policy: %w", err)
	}
	return nil
}

// handleDeletePolicyIndex removes a policy's chunks from the vector index
func (w *Worker) handleDeletePolicyIndex(ctx context.Context, task *domain.Task) error {
	policyID := task.PolicyID()
	if policyID == "" {
		return fmt.Errorf("policy_id not found in task payload")
	}

	vectorSearch := w.services.VectorSearch()
	if vectorSearch == nil {
		return domain.ErrRetrievalUnavailable
	}

	if err := vectorSearch.DeleteByPolicy(ctx, policyID); err != nil {
		return fmt.Errorf("failed to delete policy index: %w", err)
	}
	return nil
}

// Health returns health status of the worker
type Health struct {
	Running     bool   `json:"running"`
	QueueHealth bool   `json:"queue_health"`
	Error       string `json:"error,omitempty"`
}

// Health returns the health status of the worker
func (w *Worker) Health(ctx context.Context) Health {
	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()

	health := Health{
		Running: running,
	}

	if err := w.taskQueue.Ping(ctx); err != nil {
		health.QueueHealth = false
		health.Error = err.Error()
	} else {
		health.QueueHealth = true
	}

	return health
}
