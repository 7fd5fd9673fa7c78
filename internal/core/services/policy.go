package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driving"
	"github.com/custodia-labs/veridoc-core/internal/runtime"
	"github.com/custodia-labs/veridoc-core/internal/textproc"
)

// Ensure policyService implements PolicyService
var _ driving.PolicyService = (*policyService)(nil)

// policyService implements the PolicyService interface. Ingestion derives
// keywords synchronously; retrieval indexing happens asynchronously via
// the task queue so a slow or absent vector service never blocks uploads.
type policyService struct {
	policyStore driven.PolicyStore
	taskQueue   driven.TaskQueue
	services    *runtime.Services
	logger      *slog.Logger
}

// NewPolicyService creates a new PolicyService
func NewPolicyService(
	policyStore driven.PolicyStore,
	taskQueue driven.TaskQueue,
	services *runtime.Services,
	logger *slog.Logger,
) driving.PolicyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &policyService{
		policyStore: policyStore,
		taskQueue:   taskQueue,
		services:    services,
		logger:      logger,
	}
}

// Ingest creates a policy from raw content and queues it for indexing
func (s *policyService) Ingest(ctx context.Context, name, content string) (*domain.Policy, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: policy name is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: policy content is empty", domain.ErrInvalidInput)
	}

	policy := &domain.Policy{
		ID:         uuid.NewString(),
		Name:       name,
		Content:    content,
		Keywords:   textproc.ExtractKeywords(content),
		Size:       len(content),
		UploadedAt: time.Now().UTC(),
	}
	policy.StorageRef = fmt.Sprintf("policies/%s.txt", policy.ID)

	if err := s.policyStore.Save(ctx, policy); err != nil {
		return nil, fmt.Errorf("saving policy: %w", err)
	}

	if s.taskQueue != nil {
		if err := s.taskQueue.Enqueue(ctx, domain.NewIndexPolicyTask(policy.ID)); err != nil {
			// Indexing is best effort: rule-based and generative-only
			// analysis work without the vector index
			s.logger.Warn("failed to enqueue index task", "policy_id", policy.ID, "error", err)
		}
	}

	return policy, nil
}

// Get retrieves a policy by ID
func (s *policyService) Get(ctx context.Context, id string) (*domain.Policy, error) {
	return s.policyStore.Get(ctx, id)
}

// List retrieves all policies
func (s *policyService) List(ctx context.Context) ([]*domain.Policy, error) {
	return s.policyStore.List(ctx)
}

// Delete removes a policy and its indexed chunks. Vector cleanup runs
// inline when the vector service is reachable; otherwise it is queued so
// the chunks are removed once the service comes back.
func (s *policyService) Delete(ctx context.Context, id string) error {
	if err := s.policyStore.Delete(ctx, id); err != nil {
		return err
	}

	if vectorSearch := s.services.VectorSearch(); vectorSearch != nil {
		err := vectorSearch.DeleteByPolicy(ctx, id)
		if err == nil {
			return nil
		}
		s.logger.Warn("failed to delete policy vectors", "policy_id", id, "error", err)
	}

	if s.taskQueue != nil {
		if err := s.taskQueue.Enqueue(ctx, domain.NewDeletePolicyIndexTask(id)); err != nil {
			s.logger.Warn("failed to enqueue delete index task", "policy_id", id, "error", err)
		}
	}

	return nil
}

// Count returns the total number of policies
func (s *policyService) Count(ctx context.Context) (int, error) {
	return s.policyStore.Count(ctx)
}
