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
)

// analysisResult is the tier-independent outcome of one analyzer pass
type analysisResult struct {
	Score       int
	RiskLevel   domain.RiskLevel
	Issues      []domain.Issue
	Suggestions []domain.Suggestion
	Stats       domain.AnalysisStats
}

// Ensure analysisService implements AnalysisService
var _ driving.AnalysisService = (*analysisService)(nil)

// analysisService implements the AnalysisService interface. It selects an
// analysis tier from the current capability flags, runs it with the fixed
// fallback policy, and appends the finished report to the history.
type analysisService struct {
	policyStore driven.PolicyStore
	reportStore driven.ReportStore
	services    *runtime.Services
	rules       *RuleAnalyzer
	rag         *ragAnalyzer
	generative  *generativeAnalyzer
	logger      *slog.Logger
}

// NewAnalysisService creates a new AnalysisService.
// AI capabilities are accessed dynamically via runtime.Services.
func NewAnalysisService(
	policyStore driven.PolicyStore,
	reportStore driven.ReportStore,
	services *runtime.Services,
	logger *slog.Logger,
) driving.AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	rules := NewRuleAnalyzer()
	return &analysisService{
		policyStore: policyStore,
		reportStore: reportStore,
		services:    services,
		rules:       rules,
		rag:         newRAGAnalyzer(services, rules, logger),
		generative:  newGenerativeAnalyzer(services),
		logger:      logger,
	}
}

// Analyze produces a compliance report for documentText. Apart from empty
// input and an empty policy set, it always returns a report: tier failures
// are absorbed by falling back to the rule-based tier, which cannot fail.
func (s *analysisService) Analyze(ctx context.Context, documentText string, opts domain.AnalysisOptions) (*domain.AnalysisReport, error) {
	if strings.TrimSpace(documentText) == "" {
		return nil, fmt.Errorf("%w: document text is empty", domain.ErrInvalidInput)
	}

	policies, err := s.policyStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing policies: %w", err)
	}
	if len(policies) == 0 {
		return nil, domain.ErrNoPoliciesLoaded
	}

	opts = opts.WithDefaults()
	tier := s.services.Config().EffectiveTier()
	result := s.runTier(ctx, tier, documentText, policies, opts)

	report := &domain.AnalysisReport{
		ID:               uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
		DocumentLength:   len(documentText),
		WordCount:        result.Stats.WordCount,
		ComplianceScore:  result.Score,
		RiskLevel:        result.RiskLevel,
		Issues:           result.Issues,
		Suggestions:      result.Suggestions,
		PoliciesAnalyzed: len(policies),
		Stats:            result.Stats,
	}

	if err := s.reportStore.Append(ctx, report); err != nil {
		// History is best effort; the report itself is still returned
		s.logger.Warn("failed to append report to history", "error", err)
	}

	return report, nil
}

// runTier executes one analysis tier with the fixed fallback table:
//
//	rag   -> basic
//	ai    -> basic
//	basic -> (terminal, cannot fail)
//
// A failed RAG run falls back directly to the rule-based tier even when
// the generative service alone would still be usable. Fallback always
// lands on the one tier that cannot fail, never on another fallible tier.
func (s *analysisService) runTier(ctx context.Context, tier domain.Tier, documentText string, policies []*domain.Policy, opts domain.AnalysisOptions) *analysisResult {
	switch tier {
	case domain.TierRAG:
		result, err := s.rag.Analyze(ctx, documentText, opts)
		if err == nil {
			return result
		}
		s.logger.Warn("retrieval-augmented analysis failed, falling back to rule-based", "error", err)
	case domain.TierAI:
		result, err := s.generative.Analyze(ctx, documentText, policies)
		if err == nil {
			return result
		}
		s.logger.Warn("generative analysis failed, falling back to rule-based", "error", err)
	}

	return s.rules.Analyze(documentText, policies)
}

// mergeResults combines an AI result with a rule-based pass. AI issues and
// suggestions come first, then the rule-based ones; the score and risk
// level are taken from the AI result alone.
func mergeResults(ai *generativeResult, rules *analysisResult) *analysisResult {
	issues := make([]domain.Issue, 0, len(ai.Issues)+len(rules.Issues))
	issues = append(issues, ai.Issues...)
	issues = append(issues, rules.Issues...)

	suggestions := make([]domain.Suggestion, 0, len(ai.Suggestions)+len(rules.Suggestions))
	suggestions = append(suggestions, ai.Suggestions...)
	suggestions = append(suggestions, rules.Suggestions...)

	return &analysisResult{
		Score:       ai.ComplianceScore,
		RiskLevel:   domain.RiskLevelForScore(ai.ComplianceScore),
		Issues:      issues,
		Suggestions: capSuggestions(suggestions),
		Stats:       rules.Stats,
	}
}
