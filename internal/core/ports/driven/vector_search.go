package driven

import (
	"context"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
)

// VectorSearch ranks policy chunks by relevance to free text.
// The backing service owns embedding quality; this port treats it as an
// opaque capability. Implementations wrap transport failures with
// domain.ErrRetrievalUnavailable.
type VectorSearch interface {
	// Index stores a policy's chunks for later retrieval
	Index(ctx context.Context, policy *domain.Policy, chunks []domain.Chunk) error

	// Query returns up to k snippets ordered by ascending distance
	// (most relevant first)
	Query(ctx context.Context, text string, k int) ([]domain.RetrievedSnippet, error)

	// DeleteByPolicy removes all indexed chunks for a policy
	DeleteByPolicy(ctx context.Context, policyID string) error

	// HealthCheck verifies the vector search service is available
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the service
	Close() error
}
