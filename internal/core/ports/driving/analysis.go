package driving

import (
	"context"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
)

// AnalysisService analyses documents against the loaded policies.
// It owns tier selection and degradation: apart from an empty policy set,
// the caller always receives a complete report, never a tier failure.
type AnalysisService interface {
	// Analyze produces a compliance report for the given document text.
	// Returns domain.ErrNoPoliciesLoaded if no policies are ingested.
	Analyze(ctx context.Context, documentText string, opts domain.AnalysisOptions) (*domain.AnalysisReport, error)
}
