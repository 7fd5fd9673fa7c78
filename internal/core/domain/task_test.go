package domain

import (
	"testing"
	"time"
)

func TestNewIndexPolicyTask(t *testing.T) {
	task := NewIndexPolicyTask("pol-123")

	if task.Type != TaskTypeIndexPolicy {
		t.Errorf("expected type %s, got %s", TaskTypeIndexPolicy, task.Type)
	}
	if task.PolicyID() != "pol-123" {
		t.Errorf("expected policy_id pol-123, got %s", task.PolicyID())
	}
	if task.Status != TaskStatusPending {
		t.Errorf("expected status pending, got %s", task.Status)
	}
	if task.ID == "" {
		t.Error("expected a generated task ID")
	}
	if !task.IsReady() {
		t.Error("expected new task to be ready")
	}
}

func TestTask_Lifecycle(t *testing.T) {
	task := NewIndexPolicyTask("pol-123")

	task.MarkProcessing()
	if task.Status != TaskStatusProcessing {
		t.Errorf("expected processing, got %s", task.Status)
	}
	if task.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", task.Attempts)
	}

	task.MarkCompleted()
	if task.Status != TaskStatusCompleted {
		t.Errorf("expected completed, got %s", task.Status)
	}
}

func TestTask_RetryBackoff(t *testing.T) {
	task := NewIndexPolicyTask("pol-123")
	task.MarkProcessing()
	task.Retry("index failed")

	if task.Status != TaskStatusPending {
		t.Errorf("expected pending after retry, got %s", task.Status)
	}
	if task.Error != "index failed" {
		t.Errorf("expected error recorded, got %q", task.Error)
	}
	if !task.ScheduledFor.After(time.Now()) {
		t.Error("expected retry to be scheduled in the future")
	}
	if task.IsReady() {
		t.Error("expected backed-off task not to be ready yet")
	}
}

func TestTask_CanRetry(t *testing.T) {
	task := NewIndexPolicyTask("pol-123")

	for i := 0; i < task.MaxAttempts; i++ {
		if !task.CanRetry() {
			t.Fatalf("expected CanRetry true at attempt %d", i)
		}
		task.MarkProcessing()
	}

	if task.CanRetry() {
		t.Error("expected CanRetry false after max attempts")
	}
}
