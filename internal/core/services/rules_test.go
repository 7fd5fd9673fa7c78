package services

import (
	"strings"
	"testing"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/textproc"
)

// contractDoc mentions parties and a term, uses "shall" three times and has
// no termination language: 100 - 3*2 - 10 = 84.
const contractDoc = "This agreement is made between the undersigned parties. " +
	"The term of this agreement shall be five years. " +
	"The provider shall maintain accurate records. " +
	"The client shall pay monthly invoices."

func TestRuleAnalyzer_KnownContract(t *testing.T) {
	analyzer := NewRuleAnalyzer()

	result := analyzer.Analyze(contractDoc, nil)

	if result.Score != 84 {
		t.Errorf("expected score 84, got %d", result.Score)
	}
	if result.RiskLevel != domain.RiskLow {
		t.Errorf("expected risk Low, got %s", result.RiskLevel)
	}

	if len(result.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %+v", len(result.Issues), result.Issues)
	}
	if result.Issues[0].Type != "archaic_language" {
		t.Errorf("expected archaic_language issue, got %s", result.Issues[0].Type)
	}
	if result.Issues[1].Type != "missing_section" {
		t.Errorf("expected missing_section issue, got %s", result.Issues[1].Type)
	}
	if result.Issues[1].Severity != domain.SeverityHigh {
		t.Errorf("missing sections are high severity, got %s", result.Issues[1].Severity)
	}

	// Structural findings carry no suggestion, only the pattern one remains
	if len(result.Suggestions) != 1 {
		t.Errorf("expected 1 suggestion, got %d", len(result.Suggestions))
	}

	if result.Stats.Tier != domain.TierBasic {
		t.Errorf("expected tier basic, got %s", result.Stats.Tier)
	}
	if result.Stats.AIUsed || result.Stats.RetrievalUsed {
		t.Error("rule-based analysis must not flag AI or retrieval usage")
	}
}

func TestRuleAnalyzer_EmptyDocument(t *testing.T) {
	analyzer := NewRuleAnalyzer()

	result := analyzer.Analyze("", nil)

	// All three required sections are absent: 100 - 3*10 = 70
	if result.Score != 70 {
		t.Errorf("expected score 70, got %d", result.Score)
	}
	if result.RiskLevel != domain.RiskMedium {
		t.Errorf("expected risk Medium, got %s", result.RiskLevel)
	}
	if len(result.Issues) != 3 {
		t.Errorf("expected 3 missing-section issues, got %d", len(result.Issues))
	}
}

func TestRuleAnalyzer_PatternPenaltyCapped(t *testing.T) {
	analyzer := NewRuleAnalyzer()

	// Eleven occurrences would deduct 22 uncapped
	doc := "The parties " + strings.Repeat("shall ", 11) + "abide. " +
		"The term begins now and either side may terminate at will."

	result := analyzer.Analyze(doc, nil)

	if result.Score != 80 {
		t.Errorf("expected capped score 80, got %d", result.Score)
	}
}

func TestRuleAnalyzer_PolicyCoverage(t *testing.T) {
	analyzer := NewRuleAnalyzer()

	doc := "The parties agree that the term of service continues until " +
		"either side chooses to terminate this arrangement."
	policy := &domain.Policy{
		ID:   "p1",
		Name: "Liability Policy",
		Keywords: []string{
			"indemnification", "arbitration", "jurisdiction",
			"liability", "confidentiality", "warranty",
		},
	}

	result := analyzer.Analyze(doc, []*domain.Policy{policy})

	// Six uncovered keywords would deduct 18, capped at 15
	if result.Score != 85 {
		t.Errorf("expected score 85, got %d", result.Score)
	}

	var coverage *domain.Issue
	for i := range result.Issues {
		if result.Issues[i].Type == "policy_coverage" {
			coverage = &result.Issues[i]
		}
	}
	if coverage == nil {
		t.Fatal("expected a policy_coverage issue")
	}
	for _, term := range []string{"indemnification", "arbitration", "jurisdiction"} {
		if !strings.Contains(coverage.Description, term) {
			t.Errorf("expected issue to name %q, got %q", term, coverage.Description)
		}
	}
}

func TestRuleAnalyzer_CoveredPolicyNoPenalty(t *testing.T) {
	analyzer := NewRuleAnalyzer()

	// Policy keywords derived from the document itself are fully covered
	policy := &domain.Policy{
		ID:       "p1",
		Name:     "Mirror Policy",
		Keywords: textproc.ExtractKeywords(contractDoc),
	}

	covered := analyzer.Analyze(contractDoc, []*domain.Policy{policy})
	uncovered := analyzer.Analyze(contractDoc, nil)

	if covered.Score != uncovered.Score {
		t.Errorf("covered policy must not change the score: %d vs %d", covered.Score, uncovered.Score)
	}
}

func TestRuleAnalyzer_NeverFails(t *testing.T) {
	analyzer := NewRuleAnalyzer()

	inputs := []string{
		"",
		"!!!",
		"???...",
		"\n\n\n\t ",
		"1234567890",
		strings.Repeat("shall hereby whereas ", 200),
		strings.Repeat(".", 500),
	}

	for _, input := range inputs {
		result := analyzer.Analyze(input, nil)
		if result == nil {
			t.Fatalf("nil result for input %q", input)
		}
		if result.Score < 0 || result.Score > 100 {
			t.Errorf("score %d out of range for input %q", result.Score, input)
		}
		switch result.RiskLevel {
		case domain.RiskLow, domain.RiskMedium, domain.RiskHigh:
		default:
			t.Errorf("invalid risk level %q for input %q", result.RiskLevel, input)
		}
	}
}

func TestRuleAnalyzer_Deterministic(t *testing.T) {
	analyzer := NewRuleAnalyzer()
	policy := &domain.Policy{ID: "p1", Name: "P", Keywords: []string{"arbitration", "liability"}}

	first := analyzer.Analyze(contractDoc, []*domain.Policy{policy})
	for i := 0; i < 5; i++ {
		again := analyzer.Analyze(contractDoc, []*domain.Policy{policy})
		if again.Score != first.Score || len(again.Issues) != len(first.Issues) {
			t.Fatal("identical input produced a different result")
		}
	}
}
