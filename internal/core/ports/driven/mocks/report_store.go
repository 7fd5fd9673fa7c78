package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
)

// MockReportStore is a mock implementation of ReportStore for testing.
// Unbounded; retention behaviour is covered by the real memory adapter.
type MockReportStore struct {
	mu      sync.RWMutex
	reports []*domain.AnalysisReport

	// AppendErr, when set, is returned by Append (failure injection)
	AppendErr error
}

// NewMockReportStore creates a new MockReportStore
func NewMockReportStore() *MockReportStore {
	return &MockReportStore{}
}

func (m *MockReportStore) Append(ctx context.Context, report *domain.AnalysisReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.reports = append(m.reports, report)
	return nil
}

func (m *MockReportStore) List(ctx context.Context) ([]*domain.AnalysisReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.AnalysisReport, len(m.reports))
	copy(result, m.reports)
	return result, nil
}

func (m *MockReportStore) Get(ctx context.Context, id string) (*domain.AnalysisReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, report := range m.reports {
		if report.ID == id {
			return report, nil
		}
	}
	return nil, domain.ErrNotFound
}
