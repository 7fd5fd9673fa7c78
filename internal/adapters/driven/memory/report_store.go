// Package memory provides in-process driven adapters used when no external
// backing service is configured.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ReportStore = (*ReportStore)(nil)

// maxReports is the retention bound of the report history
const maxReports = 100

// ReportStore implements driven.ReportStore as a bounded in-memory FIFO.
// At most the 100 most recently appended reports are retained; appending
// past the bound evicts the oldest. Lookup is a linear scan, acceptable at
// this fixed size. Contents do not survive a restart.
type ReportStore struct {
	mu      sync.RWMutex
	reports []*domain.AnalysisReport
}

// NewReportStore creates an empty ReportStore
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// Append adds a report, evicting the oldest if the store is full
func (s *ReportStore) Append(ctx context.Context, report *domain.AnalysisReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = append(s.reports, report)
	if len(s.reports) > maxReports {
		s.reports = s.reports[len(s.reports)-maxReports:]
	}
	return nil
}

// List returns retained reports in insertion order
func (s *ReportStore) List(ctx context.Context) ([]*domain.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.AnalysisReport, len(s.reports))
	copy(result, s.reports)
	return result, nil
}

// Get retrieves a report by ID
func (s *ReportStore) Get(ctx context.Context, id string) (*domain.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, report := range s.reports {
		if report.ID == id {
			return report, nil
		}
	}
	return nil, domain.ErrNotFound
}
