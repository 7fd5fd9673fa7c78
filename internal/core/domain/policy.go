package domain

import "time"

// MaxKeywords caps the derived keyword list on a policy.
const MaxKeywords = 50

// Policy represents an ingested policy document.
// Policies are immutable once created; deletion is the only mutation.
type Policy struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StorageRef string    `json:"storage_ref"` // Reference into upload storage
	Content    string    `json:"content"`
	Keywords   []string  `json:"keywords"` // Derived at ingestion, most frequent first
	Size       int       `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PolicySummary is a Policy without its raw content, for list responses
type PolicySummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Keywords   []string  `json:"keywords"`
	Size       int       `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ToSummary converts a Policy to a PolicySummary
func (p *Policy) ToSummary() *PolicySummary {
	return &PolicySummary{
		ID:         p.ID,
		Name:       p.Name,
		Keywords:   p.Keywords,
		Size:       p.Size,
		UploadedAt: p.UploadedAt,
	}
}

// Chunk represents an ordered text fragment of a policy or of a document
// under analysis. Chunks are ephemeral: they live only for the call that
// produced them and are never persisted on their own.
type Chunk struct {
	Content  string `json:"content"`
	PolicyID string `json:"policy_id,omitempty"`
	Position int    `json:"position"`
}

// RetrievedSnippet is a policy chunk ranked by relevance to a query chunk.
// Distance is non-negative; smaller means more relevant.
type RetrievedSnippet struct {
	Content    string  `json:"content"`
	PolicyID   string  `json:"policy_id"`
	PolicyName string  `json:"policy_name"`
	Distance   float64 `json:"distance"`
}
