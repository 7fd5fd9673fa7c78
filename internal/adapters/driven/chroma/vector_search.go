// Package chroma implements vector search against a Chroma server over its
// HTTP API. Chroma embeds documents server-side, so this adapter only moves
// text and metadata.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorSearch = (*VectorSearch)(nil)

// collectionName is the single collection holding all policy chunks
const collectionName = "policy_chunks"

// VectorSearch implements driven.VectorSearch using Chroma
type VectorSearch struct {
	baseURL      string
	collectionID string
	httpClient   *http.Client
}

// Config holds Chroma connection configuration
type Config struct {
	// BaseURL is the Chroma endpoint (e.g., http://localhost:8000)
	BaseURL string

	// Timeout for HTTP requests
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 30 * time.Second,
	}
}

// NewVectorSearch creates a Chroma-backed VectorSearch and ensures the
// policy chunk collection exists.
func NewVectorSearch(ctx context.Context, cfg Config) (*VectorSearch, error) {
	v := &VectorSearch{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}

	if err := v.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

// ensureCollection creates or fetches the chunk collection
func (v *VectorSearch) ensureCollection(ctx context.Context) error {
	reqBody := map[string]interface{}{
		"name":          collectionName,
		"get_or_create": true,
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := v.doJSON(ctx, http.MethodPost, "/api/v1/collections", reqBody, &resp); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}
	if resp.ID == "" {
		return fmt.Errorf("chroma returned no collection ID")
	}

	v.collectionID = resp.ID
	return nil
}

// Index stores a policy's chunks. Chunk IDs are derived from the policy ID
// and position so re-indexing overwrites instead of duplicating.
func (v *VectorSearch) Index(ctx context.Context, policy *domain.Policy, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ids := make([]string, len(chunks))
	documents := make([]string, len(chunks))
	metadatas := make([]map[string]interface{}, len(chunks))
	for i, chunk := range chunks {
		ids[i] = fmt.Sprintf("%s:%d", policy.ID, chunk.Position)
		documents[i] = chunk.Content
		metadatas[i] = map[string]interface{}{
			"policy_id":   policy.ID,
			"policy_name": policy.Name,
			"position":    chunk.Position,
		}
	}

	reqBody := map[string]interface{}{
		"ids":       ids,
		"documents": documents,
		"metadatas": metadatas,
	}

	path := fmt.Sprintf("/api/v1/collections/%s/upsert", v.collectionID)
	if err := v.doJSON(ctx, http.MethodPost, path, reqBody, nil); err != nil {
		return fmt.Errorf("failed to index chunks: %w", err)
	}
	return nil
}

// queryResponse is Chroma's column-oriented query result
type queryResponse struct {
	Documents [][]string                 `json:"documents"`
	Metadatas [][]map[string]interface{} `json:"metadatas"`
	Distances [][]float64                `json:"distances"`
}

// Query returns up to k snippets ordered by ascending distance
func (v *VectorSearch) Query(ctx context.Context, text string, k int) ([]domain.RetrievedSnippet, error) {
	if k <= 0 {
		return nil, nil
	}

	reqBody := map[string]interface{}{
		"query_texts": []string{text},
		"n_results":   k,
		"include":     []string{"documents", "metadatas", "distances"},
	}

	var resp queryResponse
	path := fmt.Sprintf("/api/v1/collections/%s/query", v.collectionID)
	if err := v.doJSON(ctx, http.MethodPost, path, reqBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrievalUnavailable, err)
	}

	if len(resp.Documents) == 0 {
		return nil, nil
	}

	snippets := make([]domain.RetrievedSnippet, 0, len(resp.Documents[0]))
	for i, content := range resp.Documents[0] {
		snippet := domain.RetrievedSnippet{Content: content}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			snippet.Distance = resp.Distances[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			meta := resp.Metadatas[0][i]
			if id, ok := meta["policy_id"].(string); ok {
				snippet.PolicyID = id
			}
			if name, ok := meta["policy_name"].(string); ok {
				snippet.PolicyName = name
			}
		}
		snippets = append(snippets, snippet)
	}
	return snippets, nil
}

// DeleteByPolicy removes all indexed chunks for a policy
func (v *VectorSearch) DeleteByPolicy(ctx context.Context, policyID string) error {
	reqBody := map[string]interface{}{
		"where": map[string]interface{}{"policy_id": policyID},
	}

	path := fmt.Sprintf("/api/v1/collections/%s/delete", v.collectionID)
	if err := v.doJSON(ctx, http.MethodPost, path, reqBody, nil); err != nil {
		return fmt.Errorf("failed to delete policy chunks: %w", err)
	}
	return nil
}

// HealthCheck verifies the Chroma server is reachable
func (v *VectorSearch) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/api/v1/heartbeat", nil)
	if err != nil {
		return err
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRetrievalUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: heartbeat returned status %d", domain.ErrRetrievalUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases resources held by the service
func (v *VectorSearch) Close() error {
	v.httpClient.CloseIdleConnections()
	return nil
}

// doJSON performs an HTTP request with a JSON body and optional JSON response
func (v *VectorSearch) doJSON(ctx context.Context, method, path string, reqBody, respBody interface{}) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, v.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("chroma returned %s: %s", resp.Status, string(data))
	}

	if respBody != nil {
		if err := json.Unmarshal(data, respBody); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
