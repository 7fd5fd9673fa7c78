package driving

import (
	"context"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
)

// ReportService exposes the analysis report history
type ReportService interface {
	// List returns retained reports in insertion order
	List(ctx context.Context) ([]*domain.AnalysisReport, error)

	// Get retrieves a report by ID
	Get(ctx context.Context, id string) (*domain.AnalysisReport, error)
}
