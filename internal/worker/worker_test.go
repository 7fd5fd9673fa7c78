package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/veridoc-core/internal/runtime"
)

const policyContent = "All invoices must be paid within thirty days of receipt. " +
	"Late payments accrue interest at the statutory rate. " +
	"Payment disputes must be raised in writing before arbitration."

type workerEnv struct {
	queue       *mocks.MockTaskQueue
	policyStore *mocks.MockPolicyStore
	vs          *mocks.MockVectorSearch
	services    *runtime.Services
	worker      *Worker
}

func newWorkerEnv(t *testing.T, withVectorSearch bool) *workerEnv {
	t.Helper()

	env := &workerEnv{
		queue:       mocks.NewMockTaskQueue(),
		policyStore: mocks.NewMockPolicyStore(),
		services:    runtime.NewServices(domain.NewRuntimeConfig()),
	}
	if withVectorSearch {
		env.vs = mocks.NewMockVectorSearch()
		env.services.SetVectorSearch(env.vs)
	}

	env.worker = New(Config{
		TaskQueue:      env.queue,
		PolicyStore:    env.policyStore,
		Services:       env.services,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Concurrency:    1,
		DequeueTimeout: 1,
	})
	return env
}

func (e *workerEnv) savePolicy(t *testing.T, id string) *domain.Policy {
	t.Helper()
	policy := &domain.Policy{ID: id, Name: "Payment Policy", Content: policyContent}
	if err := e.policyStore.Save(context.Background(), policy); err != nil {
		t.Fatalf("save policy: %v", err)
	}
	return policy
}

func TestWorker_IndexPolicyTask(t *testing.T) {
	env := newWorkerEnv(t, true)
	ctx := context.Background()
	policy := env.savePolicy(t, "p1")

	task := domain.NewIndexPolicyTask(policy.ID)
	if err := env.queue.Enqueue(ctx, task); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	dequeued, err := env.queue.DequeueWithTimeout(ctx, 1)
	if err != nil || dequeued == nil {
		t.Fatalf("dequeue: %v %v", dequeued, err)
	}

	env.worker.processTask(ctx, dequeued, env.worker.logger)

	if env.vs.IndexedCount() == 0 {
		t.Error("expected policy chunks indexed")
	}
	stored, _ := env.queue.GetTask(ctx, task.ID)
	if stored.Status != domain.TaskStatusCompleted {
		t.Errorf("expected task completed, got %s", stored.Status)
	}
}

func TestWorker_IndexPolicyDeletedBeforeRun(t *testing.T) {
	env := newWorkerEnv(t, true)
	ctx := context.Background()

	// Policy no longer exists: the task completes without indexing
	task := domain.NewIndexPolicyTask("gone")
	_ = env.queue.Enqueue(ctx, task)
	dequeued, _ := env.queue.DequeueWithTimeout(ctx, 1)

	env.worker.processTask(ctx, dequeued, env.worker.logger)

	stored, _ := env.queue.GetTask(ctx, task.ID)
	if stored.Status != domain.TaskStatusCompleted {
		t.Errorf("expected task completed, got %s", stored.Status)
	}
	if env.vs.IndexedCount() != 0 {
		t.Error("expected nothing indexed for a deleted policy")
	}
}

func TestWorker_IndexWithoutVectorSearchRetries(t *testing.T) {
	env := newWorkerEnv(t, false)
	ctx := context.Background()
	env.savePolicy(t, "p1")

	task := domain.NewIndexPolicyTask("p1")
	_ = env.queue.Enqueue(ctx, task)
	dequeued, _ := env.queue.DequeueWithTimeout(ctx, 1)

	env.worker.processTask(ctx, dequeued, env.worker.logger)

	stored, _ := env.queue.GetTask(ctx, task.ID)
	if stored.Status != domain.TaskStatusPending {
		t.Errorf("expected task rescheduled for retry, got %s", stored.Status)
	}
}

func TestWorker_DeletePolicyIndexTask(t *testing.T) {
	env := newWorkerEnv(t, true)
	ctx := context.Background()
	policy := env.savePolicy(t, "p1")

	if err := env.vs.Index(ctx, policy, []domain.Chunk{{Content: policyContent, PolicyID: "p1"}}); err != nil {
		t.Fatalf("index: %v", err)
	}

	task := domain.NewDeletePolicyIndexTask("p1")
	_ = env.queue.Enqueue(ctx, task)
	dequeued, _ := env.queue.DequeueWithTimeout(ctx, 1)

	env.worker.processTask(ctx, dequeued, env.worker.logger)

	if env.vs.IndexedCount() != 0 {
		t.Errorf("expected chunks removed, %d remain", env.vs.IndexedCount())
	}
	stored, _ := env.queue.GetTask(ctx, task.ID)
	if stored.Status != domain.TaskStatusCompleted {
		t.Errorf("expected task completed, got %s", stored.Status)
	}
}

func TestWorker_UnknownTaskTypeFails(t *testing.T) {
	env := newWorkerEnv(t, true)
	ctx := context.Background()

	task := domain.NewTask("repaint_bikeshed", nil)
	task.MaxAttempts = 1
	_ = env.queue.Enqueue(ctx, task)
	dequeued, _ := env.queue.DequeueWithTimeout(ctx, 1)

	env.worker.processTask(ctx, dequeued, env.worker.logger)

	stored, _ := env.queue.GetTask(ctx, task.ID)
	if stored.Status != domain.TaskStatusFailed {
		t.Errorf("expected task failed, got %s", stored.Status)
	}
}

func TestWorker_StartStop(t *testing.T) {
	env := newWorkerEnv(t, true)
	ctx := context.Background()
	policy := env.savePolicy(t, "p1")

	if err := env.worker.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := env.queue.Enqueue(ctx, domain.NewIndexPolicyTask(policy.ID)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for env.vs.IndexedCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if env.vs.IndexedCount() == 0 {
		t.Error("expected policy indexed by the running worker")
	}

	env.worker.Stop()

	health := env.worker.Health(ctx)
	if health.Running {
		t.Error("expected worker not running after Stop")
	}
	if !health.QueueHealth {
		t.Error("expected healthy queue")
	}
}
