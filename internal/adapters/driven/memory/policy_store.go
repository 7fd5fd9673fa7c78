package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.PolicyStore = (*PolicyStore)(nil)

// PolicyStore implements driven.PolicyStore in memory, keeping insertion
// order for List. Used when no database is configured; contents do not
// survive a restart.
type PolicyStore struct {
	mu       sync.RWMutex
	policies map[string]*domain.Policy
	order    []string
}

// NewPolicyStore creates an empty PolicyStore
func NewPolicyStore() *PolicyStore {
	return &PolicyStore{
		policies: make(map[string]*domain.Policy),
	}
}

// Save stores a policy, overwriting any existing entry with the same ID
func (s *PolicyStore) Save(ctx context.Context, policy *domain.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.policies[policy.ID]; !exists {
		s.order = append(s.order, policy.ID)
	}
	s.policies[policy.ID] = policy
	return nil
}

// Get retrieves a policy by ID
func (s *PolicyStore) Get(ctx context.Context, id string) (*domain.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	policy, ok := s.policies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return policy, nil
}

// List returns all policies in insertion order
func (s *PolicyStore) List(ctx context.Context) ([]*domain.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Policy, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.policies[id])
	}
	return result, nil
}

// Delete removes a policy by ID
func (s *PolicyStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.policies[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.policies, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of stored policies
func (s *PolicyStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.policies), nil
}
