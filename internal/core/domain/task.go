package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskType identifies the type of background task
type TaskType string

const (
	// TaskTypeIndexPolicy chunks a policy and indexes it for retrieval
	TaskTypeIndexPolicy TaskType = "index_policy"
	// TaskTypeDeletePolicyIndex removes a policy's chunks from the index
	TaskTypeDeletePolicyIndex TaskType = "delete_policy_index"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task represents a background job to be processed by the ingestion worker
type Task struct {
	// ID is the unique identifier for this task
	ID string `json:"id"`

	// Type identifies what kind of task this is
	Type TaskType `json:"type"`

	// Payload contains task-specific data
	// For index_policy and delete_policy_index: {"policy_id": "..."}
	Payload map[string]string `json:"payload"`

	// Status is the current state of the task
	Status TaskStatus `json:"status"`

	// Attempts is how many times this task has been attempted
	Attempts int `json:"attempts"`

	// MaxAttempts is the maximum retry count before giving up
	MaxAttempts int `json:"max_attempts"`

	// Error contains the last error message if failed
	Error string `json:"error,omitempty"`

	// CreatedAt is when the task was enqueued
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task was last modified
	UpdatedAt time.Time `json:"updated_at"`

	// ScheduledFor is when the task should be processed (for retry backoff)
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewTask creates a new task with default values
func NewTask(taskType TaskType, payload map[string]string) *Task {
	now := time.Now()
	return &Task{
		ID:           uuid.NewString(),
		Type:         taskType,
		Payload:      payload,
		Status:       TaskStatusPending,
		MaxAttempts:  3,
		CreatedAt:    now,
		UpdatedAt:    now,
		ScheduledFor: now,
	}
}

// NewIndexPolicyTask creates a task to index a policy for retrieval
func NewIndexPolicyTask(policyID string) *Task {
	return NewTask(TaskTypeIndexPolicy, map[string]string{
		"policy_id": policyID,
	})
}

// NewDeletePolicyIndexTask creates a task to remove a policy from the index
func NewDeletePolicyIndexTask(policyID string) *Task {
	return NewTask(TaskTypeDeletePolicyIndex, map[string]string{
		"policy_id": policyID,
	})
}

// PolicyID extracts the policy_id from the payload
func (t *Task) PolicyID() string {
	if t.Payload == nil {
		return ""
	}
	return t.Payload["policy_id"]
}

// CanRetry returns true if the task can be retried
func (t *Task) CanRetry() bool {
	return t.Attempts < t.MaxAttempts
}

// IsReady returns true if the task is ready to be processed
func (t *Task) IsReady() bool {
	return t.Status == TaskStatusPending && time.Now().After(t.ScheduledFor)
}

// MarkProcessing updates the task to processing state
func (t *Task) MarkProcessing() {
	now := time.Now()
	t.Status = TaskStatusProcessing
	t.UpdatedAt = now
	t.Attempts++
}

// MarkCompleted updates the task to completed state
func (t *Task) MarkCompleted() {
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.UpdatedAt = now
	t.Error = ""
}

// MarkFailed updates the task to failed state
func (t *Task) MarkFailed(err string) {
	t.Status = TaskStatusFailed
	t.UpdatedAt = time.Now()
	t.Error = err
}

// Retry resets the task for retry with exponential backoff
func (t *Task) Retry(err string) {
	now := time.Now()
	t.Status = TaskStatusPending
	t.UpdatedAt = now
	t.Error = err

	// Exponential backoff: 1s, 2s, 4s, 8s, etc.
	backoff := time.Duration(1<<t.Attempts) * time.Second
	if backoff > 5*time.Minute {
		backoff = 5 * time.Minute
	}
	t.ScheduledFor = now.Add(backoff)
}
