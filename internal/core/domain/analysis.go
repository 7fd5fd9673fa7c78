package domain

import "time"

// Severity grades an issue. The same scale is used for suggestion priority.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RiskLevel summarises a compliance score
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Tier identifies which analysis mode produced a report
type Tier string

const (
	// TierRAG combines retrieved policy snippets with generative analysis
	TierRAG Tier = "rag"
	// TierAI is generative analysis without retrieval
	TierAI Tier = "ai"
	// TierBasic is rule-based analysis only
	TierBasic Tier = "basic"
)

// MaxSuggestions caps the suggestion list on a report
const MaxSuggestions = 25

// Issue flags a compliance problem found in a document
type Issue struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// Suggestion proposes a fix for a compliance problem
type Suggestion struct {
	Type        string   `json:"type"`
	Priority    Severity `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// AnalysisStats records how a document was analysed
type AnalysisStats struct {
	WordCount      int  `json:"word_count"`
	CharCount      int  `json:"char_count"`
	SentenceCount  int  `json:"sentence_count"`
	ParagraphCount int  `json:"paragraph_count"`
	Tier           Tier `json:"tier"`
	AIUsed         bool `json:"ai_used"`
	RetrievalUsed  bool `json:"retrieval_used"`
}

// AnalysisReport is the result of one compliance analysis.
// Reports are immutable once created.
type AnalysisReport struct {
	ID               string        `json:"id"`
	CreatedAt        time.Time     `json:"created_at"`
	DocumentLength   int           `json:"document_length"`
	WordCount        int           `json:"word_count"`
	ComplianceScore  int           `json:"compliance_score"`
	RiskLevel        RiskLevel     `json:"risk_level"`
	Issues           []Issue       `json:"issues"`
	Suggestions      []Suggestion  `json:"suggestions"`
	PoliciesAnalyzed int           `json:"policies_analyzed"`
	Stats            AnalysisStats `json:"stats"`
}

// AnalysisOptions configures an analysis request
type AnalysisOptions struct {
	// TopK is how many retrieved snippets to keep overall
	TopK int `json:"top_k"`

	// MaxChunkSize is the maximum characters per document chunk
	MaxChunkSize int `json:"max_chunk_size"`

	// ChunkOverlap is the character overlap between document chunks
	ChunkOverlap int `json:"chunk_overlap"`
}

// DefaultAnalysisOptions returns sensible defaults
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		TopK:         10,
		MaxChunkSize: 1000,
		ChunkOverlap: 200,
	}
}

// WithDefaults fills unset fields from DefaultAnalysisOptions
func (o AnalysisOptions) WithDefaults() AnalysisOptions {
	defaults := DefaultAnalysisOptions()
	if o.TopK <= 0 {
		o.TopK = defaults.TopK
	}
	if o.MaxChunkSize <= 0 {
		o.MaxChunkSize = defaults.MaxChunkSize
	}
	if o.ChunkOverlap <= 0 {
		o.ChunkOverlap = defaults.ChunkOverlap
	}
	return o
}

// ClampScore forces a compliance score into the valid [0,100] range
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// RiskLevelForScore derives the risk level from a compliance score.
// The mapping is fixed: score>=80 is Low, score>=60 is Medium, else High.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score >= 80:
		return RiskLow
	case score >= 60:
		return RiskMedium
	default:
		return RiskHigh
	}
}
