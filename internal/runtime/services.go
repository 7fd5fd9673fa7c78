package runtime

import (
	"context"
	"sync"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven"
)

// Services holds references to the dynamically configurable external
// capabilities. Vector search and the generative service can be swapped or
// removed at runtime; the capability flags on RuntimeConfig follow along
// and drive analysis tier selection. Thread-safe for concurrent access.
type Services struct {
	mu sync.RWMutex

	// Config tracks capability flags
	config *domain.RuntimeConfig

	// Dynamic services (can be nil, updated at runtime)
	vectorSearch driven.VectorSearch
	generative   driven.GenerativeService
}

// NewServices creates a new Services registry
func NewServices(config *domain.RuntimeConfig) *Services {
	return &Services{
		config: config,
	}
}

// Config returns the runtime configuration
func (s *Services) Config() *domain.RuntimeConfig {
	return s.config
}

// VectorSearch returns the current vector search service (may be nil)
func (s *Services) VectorSearch() driven.VectorSearch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vectorSearch
}

// Generative returns the current generative service (may be nil)
func (s *Services) Generative() driven.GenerativeService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generative
}

// SetVectorSearch updates the vector search service.
// Closes the old service if present. Updates capability flags.
func (s *Services) SetVectorSearch(svc driven.VectorSearch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vectorSearch != nil {
		_ = s.vectorSearch.Close()
	}

	s.vectorSearch = svc
	s.config.SetRetrievalAvailable(svc != nil)
}

// SetGenerative updates the generative service.
// Closes the old service if present. Updates capability flags.
func (s *Services) SetGenerative(svc driven.GenerativeService) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generative != nil {
		_ = s.generative.Close()
	}

	s.generative = svc
	s.config.SetGenerativeAvailable(svc != nil)
}

// ValidateAndSetVectorSearch validates connectivity before setting the
// vector search service
func (s *Services) ValidateAndSetVectorSearch(ctx context.Context, svc driven.VectorSearch) error {
	if svc == nil {
		s.SetVectorSearch(nil)
		return nil
	}

	if err := svc.HealthCheck(ctx); err != nil {
		_ = svc.Close()
		return err
	}

	s.SetVectorSearch(svc)
	return nil
}

// ValidateAndSetGenerative validates connectivity before setting the
// generative service
func (s *Services) ValidateAndSetGenerative(ctx context.Context, svc driven.GenerativeService) error {
	if svc == nil {
		s.SetGenerative(nil)
		return nil
	}

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return err
	}

	s.SetGenerative(svc)
	return nil
}

// Close shuts down all services
func (s *Services) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vectorSearch != nil {
		_ = s.vectorSearch.Close()
		s.vectorSearch = nil
	}
	if s.generative != nil {
		_ = s.generative.Close()
		s.generative = nil
	}

	s.config.SetRetrievalAvailable(false)
	s.config.SetGenerativeAvailable(false)

	return nil
}
