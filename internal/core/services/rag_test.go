package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/veridoc-core/internal/runtime"
	"github.com/custodia-labs/veridoc-core/internal/textproc"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const goodResponse = `{"complianceScore": 72, "riskLevel": "Medium",
	"issues": [{"type": "vague_language", "severity": "medium", "title": "Vague obligations", "description": "No measurable criteria"}],
	"suggestions": [{"type": "vague_language", "priority": "medium", "title": "Define obligations", "description": "Add measurable criteria"}]}`

func newTestServices(vs *mocks.MockVectorSearch, gen *mocks.MockGenerativeService) *runtime.Services {
	services := runtime.NewServices(domain.NewRuntimeConfig())
	if vs != nil {
		services.SetVectorSearch(vs)
	}
	if gen != nil {
		services.SetGenerative(gen)
	}
	return services
}

func indexedPolicy(t *testing.T, vs *mocks.MockVectorSearch) *domain.Policy {
	t.Helper()
	policy := &domain.Policy{ID: "p1", Name: "Payment Policy"}
	chunks := []domain.Chunk{
		{Content: "Invoices are payable within thirty days of receipt.", PolicyID: "p1", Position: 0},
		{Content: "Late payment accrues interest at the statutory rate.", PolicyID: "p1", Position: 1},
	}
	if err := vs.Index(context.Background(), policy, chunks); err != nil {
		t.Fatalf("indexing failed: %v", err)
	}
	return policy
}

func TestRAGAnalyzer_Success(t *testing.T) {
	vs := mocks.NewMockVectorSearch()
	gen := mocks.NewMockGenerativeService()
	gen.Response = goodResponse
	indexedPolicy(t, vs)

	analyzer := newRAGAnalyzer(newTestServices(vs, gen), NewRuleAnalyzer(), testLogger())

	result, err := analyzer.Analyze(context.Background(), contractDoc, domain.DefaultAnalysisOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Score != 72 {
		t.Errorf("expected AI score 72, got %d", result.Score)
	}
	if result.RiskLevel != domain.RiskMedium {
		t.Errorf("expected risk Medium, got %s", result.RiskLevel)
	}
	if result.Stats.Tier != domain.TierRAG {
		t.Errorf("expected tier rag, got %s", result.Stats.Tier)
	}
	if !result.Stats.AIUsed || !result.Stats.RetrievalUsed {
		t.Error("expected AIUsed and RetrievalUsed to be set")
	}

	// AI findings come before the rule-based ones
	if len(result.Issues) < 2 {
		t.Fatalf("expected merged issues, got %d", len(result.Issues))
	}
	if result.Issues[0].Type != "vague_language" {
		t.Errorf("expected AI issue first, got %s", result.Issues[0].Type)
	}

	// Retrieved snippets and the document reach the prompt
	prompt := gen.LastPrompt()
	if !strings.Contains(prompt, "[Payment Policy]") {
		t.Error("expected retrieved snippet attribution in prompt")
	}
	if !strings.Contains(prompt, contractDoc) {
		t.Error("expected document text in prompt")
	}
}

func TestRAGAnalyzer_NoVectorSearch(t *testing.T) {
	gen := mocks.NewMockGenerativeService()
	analyzer := newRAGAnalyzer(newTestServices(nil, gen), NewRuleAnalyzer(), testLogger())

	_, err := analyzer.Analyze(context.Background(), contractDoc, domain.DefaultAnalysisOptions())
	if !errors.Is(err, domain.ErrRetrievalUnavailable) {
		t.Errorf("expected ErrRetrievalUnavailable, got %v", err)
	}
}

func TestRAGAnalyzer_RetrievalFailurePropagates(t *testing.T) {
	vs := mocks.NewMockVectorSearch()
	vs.QueryErr = errors.New("connection refused")
	gen := mocks.NewMockGenerativeService()
	gen.Response = goodResponse

	analyzer := newRAGAnalyzer(newTestServices(vs, gen), NewRuleAnalyzer(), testLogger())

	_, err := analyzer.Analyze(context.Background(), contractDoc, domain.DefaultAnalysisOptions())
	if err == nil {
		t.Fatal("expected retrieval failure to propagate")
	}
	if len(gen.Prompts) != 0 {
		t.Error("generative service must not be called after retrieval failure")
	}
}

func TestRAGAnalyzer_GenerativeFailureDegrades(t *testing.T) {
	vs := mocks.NewMockVectorSearch()
	gen := mocks.NewMockGenerativeService()
	gen.AnalyzeErr = errors.New("model overloaded")
	indexedPolicy(t, vs)

	analyzer := newRAGAnalyzer(newTestServices(vs, gen), NewRuleAnalyzer(), testLogger())

	result, err := analyzer.Analyze(context.Background(), contractDoc, domain.DefaultAnalysisOptions())
	if err != nil {
		t.Fatalf("generative failure must not abort the tier: %v", err)
	}
	if result.Score != 60 {
		t.Errorf("expected placeholder score 60, got %d", result.Score)
	}
	if result.RiskLevel != domain.RiskMedium {
		t.Errorf("expected risk Medium, got %s", result.RiskLevel)
	}
	if result.Issues[0].Type != "ai_unavailable" {
		t.Errorf("expected ai_unavailable issue first, got %s", result.Issues[0].Type)
	}
	if result.Stats.Tier != domain.TierRAG {
		t.Errorf("degraded result still reports tier rag, got %s", result.Stats.Tier)
	}
}

func TestRAGAnalyzer_MalformedResponseDegrades(t *testing.T) {
	vs := mocks.NewMockVectorSearch()
	gen := mocks.NewMockGenerativeService()
	gen.Response = "I could not produce a structured answer."
	indexedPolicy(t, vs)

	analyzer := newRAGAnalyzer(newTestServices(vs, gen), NewRuleAnalyzer(), testLogger())

	result, err := analyzer.Analyze(context.Background(), contractDoc, domain.DefaultAnalysisOptions())
	if err != nil {
		t.Fatalf("malformed response must not abort the tier: %v", err)
	}
	if result.Score != 60 {
		t.Errorf("expected placeholder score 60, got %d", result.Score)
	}
	if result.Issues[0].Type != "ai_unavailable" {
		t.Errorf("expected ai_unavailable issue, got %s", result.Issues[0].Type)
	}
}

func TestRAGAnalyzer_QueryChunkBound(t *testing.T) {
	vs := mocks.NewMockVectorSearch()
	gen := mocks.NewMockGenerativeService()
	gen.Response = goodResponse
	indexedPolicy(t, vs)

	analyzer := newRAGAnalyzer(newTestServices(vs, gen), NewRuleAnalyzer(), testLogger())

	// Long document, small chunks: many chunks exist but at most three
	// become retrieval queries
	longDoc := strings.Repeat("The parties agree to the stated term of service in every clause. ", 40)
	opts := domain.AnalysisOptions{TopK: 6, MaxChunkSize: 200, ChunkOverlap: 40}

	if got := len(textproc.Chunk(longDoc, opts.MaxChunkSize, opts.ChunkOverlap)); got <= maxQueryChunks {
		t.Fatalf("test needs more than %d chunks, got %d", maxQueryChunks, got)
	}

	if _, err := analyzer.Analyze(context.Background(), longDoc, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vs.Queries) != maxQueryChunks {
		t.Errorf("expected %d retrieval queries, got %d", maxQueryChunks, len(vs.Queries))
	}
}
