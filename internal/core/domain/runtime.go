package domain

import "sync"

// RuntimeConfig tracks which external capabilities are available at runtime.
// Availability is determined at startup and updated dynamically when AI
// services are reconfigured. Thread-safe for concurrent access.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Dynamic capability flags (updated when services change)
	retrievalAvailable  bool
	generativeAvailable bool
}

// NewRuntimeConfig creates a new RuntimeConfig with no capabilities
func NewRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{}
}

// RetrievalAvailable returns whether vector search is available
func (c *RuntimeConfig) RetrievalAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.retrievalAvailable
}

// GenerativeAvailable returns whether the generative service is available
func (c *RuntimeConfig) GenerativeAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generativeAvailable
}

// SetRetrievalAvailable updates the retrieval availability flag
func (c *RuntimeConfig) SetRetrievalAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retrievalAvailable = available
}

// SetGenerativeAvailable updates the generative availability flag
func (c *RuntimeConfig) SetGenerativeAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generativeAvailable = available
}

// CanDoRAG returns true if retrieval-augmented analysis is possible
func (c *RuntimeConfig) CanDoRAG() bool {
	return c.RetrievalAvailable() && c.GenerativeAvailable()
}

// EffectiveTier returns the best analysis tier the current capabilities
// allow: RAG when retrieval and generative are both up, AI when only the
// generative service is up, BASIC otherwise.
func (c *RuntimeConfig) EffectiveTier() Tier {
	if c.CanDoRAG() {
		return TierRAG
	}
	if c.GenerativeAvailable() {
		return TierAI
	}
	return TierBasic
}
