package mocks

import (
	"context"
	"sync"
)

// MockGenerativeService is a mock implementation of GenerativeService for testing
type MockGenerativeService struct {
	mu sync.Mutex

	// Response is the raw text returned by Analyze
	Response string

	// AnalyzeErr, when set, is returned by Analyze (failure injection)
	AnalyzeErr error

	// PingErr, when set, is returned by Ping
	PingErr error

	// Prompts records every prompt passed to Analyze
	Prompts []string
}

// NewMockGenerativeService creates a new MockGenerativeService
func NewMockGenerativeService() *MockGenerativeService {
	return &MockGenerativeService{}
}

func (m *MockGenerativeService) Analyze(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if m.AnalyzeErr != nil {
		return "", m.AnalyzeErr
	}
	return m.Response, nil
}

func (m *MockGenerativeService) Model() string {
	return "mock-model"
}

func (m *MockGenerativeService) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PingErr
}

func (m *MockGenerativeService) Close() error {
	return nil
}

// LastPrompt returns the most recent prompt passed to Analyze
func (m *MockGenerativeService) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}
