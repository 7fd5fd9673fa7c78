package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
)

// MockPolicyStore is a mock implementation of PolicyStore for testing
type MockPolicyStore struct {
	mu       sync.RWMutex
	policies map[string]*domain.Policy
	order    []string
}

// NewMockPolicyStore creates a new MockPolicyStore
func NewMockPolicyStore() *MockPolicyStore {
	return &MockPolicyStore{
		policies: make(map[string]*domain.Policy),
	}
}

func (m *MockPolicyStore) Save(ctx context.Context, policy *domain.Policy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.policies[policy.ID]; !exists {
		m.order = append(m.order, policy.ID)
	}
	m.policies[policy.ID] = policy
	return nil
}

func (m *MockPolicyStore) Get(ctx context.Context, id string) (*domain.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	policy, ok := m.policies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return policy, nil
}

func (m *MockPolicyStore) List(ctx context.Context) ([]*domain.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Policy, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.policies[id])
	}
	return result, nil
}

func (m *MockPolicyStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.policies[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.policies, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockPolicyStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.policies), nil
}
