package services

import (
	"context"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driving"
)

// Ensure reportService implements ReportService
var _ driving.ReportService = (*reportService)(nil)

// reportService implements the ReportService interface
type reportService struct {
	reportStore driven.ReportStore
}

// NewReportService creates a new ReportService
func NewReportService(reportStore driven.ReportStore) driving.ReportService {
	return &reportService{reportStore: reportStore}
}

// List returns retained reports in insertion order
func (s *reportService) List(ctx context.Context) ([]*domain.AnalysisReport, error) {
	return s.reportStore.List(ctx)
}

// Get retrieves a report by ID
func (s *reportService) Get(ctx context.Context, id string) (*domain.AnalysisReport, error) {
	return s.reportStore.Get(ctx, id)
}
