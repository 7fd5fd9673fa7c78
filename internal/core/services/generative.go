package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/runtime"
	"github.com/custodia-labs/veridoc-core/internal/textproc"
)

// generativeAnalyzer runs generative analysis without a retrieval step:
// the prompt summarises every policy by name and keywords instead of
// retrieved excerpts. Unlike the retrieval-augmented tier it propagates
// capability failures to its caller - the degradation controller owns the
// fallback for this tier.
type generativeAnalyzer struct {
	services *runtime.Services
}

func newGenerativeAnalyzer(services *runtime.Services) *generativeAnalyzer {
	return &generativeAnalyzer{services: services}
}

func (a *generativeAnalyzer) Analyze(ctx context.Context, documentText string, policies []*domain.Policy) (*analysisResult, error) {
	generative := a.services.Generative()
	if generative == nil {
		return nil, domain.ErrGenerativeUnavailable
	}

	raw, err := generative.Analyze(ctx, buildPolicySummaryPrompt(documentText, policies))
	if err != nil {
		return nil, fmt.Errorf("generative analysis: %w", err)
	}

	parsed, err := parseGenerativeResponse(raw)
	if err != nil {
		return nil, err
	}

	textStats := textproc.Measure(documentText)
	return &analysisResult{
		Score:       parsed.ComplianceScore,
		RiskLevel:   domain.RiskLevelForScore(parsed.ComplianceScore),
		Issues:      parsed.Issues,
		Suggestions: capSuggestions(parsed.Suggestions),
		Stats: domain.AnalysisStats{
			WordCount:      textStats.Words,
			CharCount:      textStats.Chars,
			SentenceCount:  textStats.Sentences,
			ParagraphCount: textStats.Paragraphs,
			Tier:           domain.TierAI,
			AIUsed:         true,
		},
	}, nil
}
