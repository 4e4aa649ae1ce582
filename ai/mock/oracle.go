package mock

import (
	"context"

	"github.com/poiesic/commatch/ai"
)

// MockOracle is a test double for ai.Oracle.
// It allows custom behavior injection via function fields.
type MockOracle struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default canned responses.
	CompleteFunc func(ctx context.Context, req ai.CompletionRequest) (string, error)

	callCount int
	requests  []ai.CompletionRequest
}

// NewMockOracle creates a mock oracle with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockOracle().
func NewMockOracle() *MockOracle {
	return &MockOracle{}
}

// Complete records the request and returns a canned response: an empty JSON
// object for JSON-mode requests, a fixed sentence otherwise.
func (m *MockOracle) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	m.callCount++
	m.requests = append(m.requests, req)

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}

	if req.JSONOnly {
		return `{"matches":[]}`, nil
	}
	return "mock completion", nil
}

// CallCount returns the number of times Complete was called.
func (m *MockOracle) CallCount() int {
	return m.callCount
}

// Requests returns the recorded completion requests in call order.
func (m *MockOracle) Requests() []ai.CompletionRequest {
	return m.requests
}

// Reset clears the call count, recorded requests, and custom functions.
func (m *MockOracle) Reset() {
	m.callCount = 0
	m.requests = nil
	m.CompleteFunc = nil
}
