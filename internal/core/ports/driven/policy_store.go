package driven

import (
	"context"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
)

// PolicyStore handles policy persistence (PostgreSQL or in-memory)
type PolicyStore interface {
	// Save creates a policy
	Save(ctx context.Context, policy *domain.Policy) error

	// Get retrieves a policy by ID
	Get(ctx context.Context, id string) (*domain.Policy, error)

	// List retrieves all policies ordered by upload time
	List(ctx context.Context) ([]*domain.Policy, error)

	// Delete deletes a policy
	Delete(ctx context.Context, id string) error

	// Count returns total policy count
	Count(ctx context.Context) (int, error)
}
