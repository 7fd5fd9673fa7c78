package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
)

// generativeResult mirrors the JSON object the model is instructed to return
type generativeResult struct {
	ComplianceScore int
	Issues          []domain.Issue
	Suggestions     []domain.Suggestion
}

// generativeResponse is the wire form of generativeResult. ComplianceScore
// is a pointer so a response missing the field is rejected instead of
// silently scoring zero.
type generativeResponse struct {
	ComplianceScore *int                `json:"complianceScore"`
	RiskLevel       string              `json:"riskLevel"`
	Issues          []domain.Issue      `json:"issues"`
	Suggestions     []domain.Suggestion `json:"suggestions"`
}

const promptRole = "You are an expert compliance reviewer for business contracts. " +
	"Assess the document against the provided policy material and report concrete findings."

const promptSchema = `Respond with a single JSON object and nothing else, using exactly this schema:
{
  "complianceScore": <integer 0-100>,
  "riskLevel": "Low" | "Medium" | "High",
  "issues": [{"type": "...", "severity": "low"|"medium"|"high", "title": "...", "description": "..."}],
  "suggestions": [{"type": "...", "priority": "low"|"medium"|"high", "title": "...", "description": "..."}]
}`

// buildContextPrompt assembles the retrieval-augmented prompt: role
// instruction, each retrieved snippet paired with its source policy name,
// the full document and the output schema.
func buildContextPrompt(documentText string, snippets []domain.RetrievedSnippet) string {
	var sb strings.Builder
	sb.WriteString(promptRole)
	sb.WriteString("\n\nRelevant policy excerpts:\n")
	if len(snippets) == 0 {
		sb.WriteString("(no policy excerpts retrieved)\n")
	}
	for _, s := range snippets {
		fmt.Fprintf(&sb, "[%s] %s\n", s.PolicyName, s.Content)
	}
	sb.WriteString("\nDocument under review:\n")
	sb.WriteString(documentText)
	sb.WriteString("\n\n")
	sb.WriteString(promptSchema)
	return sb.String()
}

// buildPolicySummaryPrompt assembles the retrieval-less prompt: role
// instruction, each policy's name with its full keyword list, the full
// document and the output schema.
func buildPolicySummaryPrompt(documentText string, policies []*domain.Policy) string {
	var sb strings.Builder
	sb.WriteString(promptRole)
	sb.WriteString("\n\nPolicies in force:\n")
	for _, p := range policies {
		fmt.Fprintf(&sb, "- %s (key terms: %s)\n", p.Name, strings.Join(p.Keywords, ", "))
	}
	sb.WriteString("\nDocument under review:\n")
	sb.WriteString(documentText)
	sb.WriteString("\n\n")
	sb.WriteString(promptSchema)
	return sb.String()
}

// parseGenerativeResponse extracts the schema object from raw model output.
// Models wrap JSON in prose or code fences often enough that parsing spans
// the first '{' through the last '}'. The risk level is re-derived from the
// clamped score rather than trusted from the model, which keeps the
// score-to-risk invariant intact.
func parseGenerativeResponse(raw string) (*generativeResult, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", domain.ErrMalformedResponse)
	}

	var resp generativeResponse
	if err := json.Unmarshal([]byte(raw[start:end+1]), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if resp.ComplianceScore == nil {
		return nil, fmt.Errorf("%w: missing complianceScore", domain.ErrMalformedResponse)
	}

	return &generativeResult{
		ComplianceScore: domain.ClampScore(*resp.ComplianceScore),
		Issues:          resp.Issues,
		Suggestions:     resp.Suggestions,
	}, nil
}

// degradedGenerativeResult is the fixed placeholder substituted when the AI
// step of retrieval-augmented analysis fails: score 60, medium risk, one
// synthetic issue/suggestion pair.
func degradedGenerativeResult() *generativeResult {
	return &generativeResult{
		ComplianceScore: 60,
		Issues: []domain.Issue{{
			Type:        "ai_unavailable",
			Severity:    domain.SeverityMedium,
			Title:       "AI analysis unavailable",
			Description: "The generative analysis step could not be completed; remaining findings are rule-based",
		}},
		Suggestions: []domain.Suggestion{{
			Type:        "ai_unavailable",
			Priority:    domain.SeverityMedium,
			Title:       "Re-run analysis later",
			Description: "Re-run the analysis once the AI service is reachable for a full assessment",
		}},
	}
}
