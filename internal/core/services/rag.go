package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/runtime"
	"github.com/custodia-labs/veridoc-core/internal/textproc"
)

// maxQueryChunks bounds how many document chunks are used as retrieval
// queries
const maxQueryChunks = 3

// ragAnalyzer orchestrates chunking, retrieval and generative analysis,
// merged with a rule-based pass. Retrieval failures propagate to the
// caller; generative failures degrade internally to a fixed placeholder.
type ragAnalyzer struct {
	services *runtime.Services
	rules    *RuleAnalyzer
	logger   *slog.Logger
}

func newRAGAnalyzer(services *runtime.Services, rules *RuleAnalyzer, logger *slog.Logger) *ragAnalyzer {
	return &ragAnalyzer{
		services: services,
		rules:    rules,
		logger:   logger,
	}
}

// Analyze chunks the document, retrieves the most relevant policy snippets
// for up to three chunks, and feeds them to the generative service. The
// per-chunk result lists are merged and re-ranked globally by distance, so
// the final context is independent of which query chunk produced a snippet.
func (a *ragAnalyzer) Analyze(ctx context.Context, documentText string, opts domain.AnalysisOptions) (*analysisResult, error) {
	vectorSearch := a.services.VectorSearch()
	if vectorSearch == nil {
		return nil, domain.ErrRetrievalUnavailable
	}

	chunks := textproc.Chunk(documentText, opts.MaxChunkSize, opts.ChunkOverlap)
	if len(chunks) > maxQueryChunks {
		chunks = chunks[:maxQueryChunks]
	}
	perChunk := (opts.TopK + maxQueryChunks - 1) / maxQueryChunks

	var snippets []domain.RetrievedSnippet
	for _, chunk := range chunks {
		results, err := vectorSearch.Query(ctx, chunk, perChunk)
		if err != nil {
			return nil, fmt.Errorf("retrieval query failed: %w", err)
		}
		snippets = append(snippets, results...)
	}

	sort.SliceStable(snippets, func(i, j int) bool {
		return snippets[i].Distance < snippets[j].Distance
	})
	if len(snippets) > opts.TopK {
		snippets = snippets[:opts.TopK]
	}

	aiResult := a.generativeStep(ctx, buildContextPrompt(documentText, snippets))

	// The rule-based pass runs with an empty policy set here: policy
	// coverage is already represented by the retrieved context.
	ruleResult := a.rules.Analyze(documentText, nil)

	merged := mergeResults(aiResult, ruleResult)
	merged.Stats.Tier = domain.TierRAG
	merged.Stats.AIUsed = true
	merged.Stats.RetrievalUsed = true
	return merged, nil
}

// generativeStep runs the AI call, substituting the fixed degraded result
// on any failure. The retrieval-augmented tier never aborts on a flaky
// generative service.
func (a *ragAnalyzer) generativeStep(ctx context.Context, prompt string) *generativeResult {
	generative := a.services.Generative()
	if generative == nil {
		return degradedGenerativeResult()
	}

	raw, err := generative.Analyze(ctx, prompt)
	if err != nil {
		a.logger.Warn("generative analysis failed, substituting degraded result", "error", err)
		return degradedGenerativeResult()
	}

	parsed, err := parseGenerativeResponse(raw)
	if err != nil {
		a.logger.Warn("generative response unparseable, substituting degraded result", "error", err)
		return degradedGenerativeResult()
	}
	return parsed
}
