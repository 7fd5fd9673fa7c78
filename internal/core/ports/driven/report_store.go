package driven

import (
	"context"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
)

// ReportStore is a bounded, append-only history of analysis reports.
// Implementations retain at most the 100 most recently appended reports
// and evict the oldest on overflow. Store lifetime equals process
// lifetime; there is no persistence across restarts.
type ReportStore interface {
	// Append adds a report, evicting the oldest if the store is full
	Append(ctx context.Context, report *domain.AnalysisReport) error

	// List returns retained reports in insertion order
	List(ctx context.Context) ([]*domain.AnalysisReport, error)

	// Get retrieves a report by ID, domain.ErrNotFound if evicted or unknown
	Get(ctx context.Context, id string) (*domain.AnalysisReport, error)
}
