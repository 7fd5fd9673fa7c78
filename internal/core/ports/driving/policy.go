package driving

import (
	"context"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
)

// PolicyService manages policy document ingestion
type PolicyService interface {
	// Ingest creates a policy from raw content, derives its keywords and
	// queues it for retrieval indexing
	Ingest(ctx context.Context, name, content string) (*domain.Policy, error)

	// Get retrieves a policy by ID
	Get(ctx context.Context, id string) (*domain.Policy, error)

	// List retrieves all policies
	List(ctx context.Context) ([]*domain.Policy, error)

	// Delete removes a policy and its indexed chunks
	Delete(ctx context.Context, id string) error

	// Count returns the total number of policies
	Count(ctx context.Context) (int, error)
}
