package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
)

// MockVectorSearch is a mock implementation of VectorSearch for testing.
// It ranks indexed chunks by naive word overlap with the query; distance
// is 1/(1+overlap) so more shared words means a smaller distance.
type MockVectorSearch struct {
	mu       sync.RWMutex
	snippets []domain.RetrievedSnippet

	// QueryErr, when set, is returned by Query (failure injection)
	QueryErr error

	// DeleteErr, when set, is returned by DeleteByPolicy
	DeleteErr error

	// HealthErr, when set, is returned by HealthCheck
	HealthErr error

	// Queries records every query text passed to Query
	Queries []string
}

// NewMockVectorSearch creates a new MockVectorSearch
func NewMockVectorSearch() *MockVectorSearch {
	return &MockVectorSearch{}
}

func (m *MockVectorSearch) Index(ctx context.Context, policy *domain.Policy, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, chunk := range chunks {
		m.snippets = append(m.snippets, domain.RetrievedSnippet{
			Content:    chunk.Content,
			PolicyID:   policy.ID,
			PolicyName: policy.Name,
		})
	}
	return nil
}

func (m *MockVectorSearch) Query(ctx context.Context, text string, k int) ([]domain.RetrievedSnippet, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, text)
	err := m.QueryErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	queryWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		queryWords[w] = struct{}{}
	}

	var results []domain.RetrievedSnippet
	for _, s := range m.snippets {
		overlap := 0
		for _, w := range strings.Fields(strings.ToLower(s.Content)) {
			if _, ok := queryWords[w]; ok {
				overlap++
			}
		}
		s.Distance = 1.0 / float64(1+overlap)
		results = append(results, s)
	}

	// Selection sort keeps the mock dependency-free and deterministic
	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			if results[j].Distance < results[i].Distance {
				results[i], results[j] = results[j], results[i]
			}
		}
	}

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (m *MockVectorSearch) DeleteByPolicy(ctx context.Context, policyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	kept := m.snippets[:0]
	for _, s := range m.snippets {
		if s.PolicyID != policyID {
			kept = append(kept, s)
		}
	}
	m.snippets = kept
	return nil
}

func (m *MockVectorSearch) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.HealthErr
}

func (m *MockVectorSearch) Close() error {
	return nil
}

// IndexedCount returns how many snippets are currently indexed
func (m *MockVectorSearch) IndexedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snippets)
}
