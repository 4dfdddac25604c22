// internal/llm/mock.go
package llm

import (
	"context"
	"sync/atomic"
)

// MockProvider is a scriptable chain entry for tests and local development.
type MockProvider struct {
	ProviderName string
	// Responses are returned in order; the last one repeats. Errs runs in
	// parallel: a non-nil entry is returned instead of the response.
	Responses []string
	Errs      []error

	calls atomic.Int64
}

func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

func (m *MockProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	n := int(m.calls.Add(1)) - 1
	if n < len(m.Errs) && m.Errs[n] != nil {
		return "", m.Errs[n]
	}
	if len(m.Responses) == 0 {
		return "", ErrBadOutput
	}
	if n >= len(m.Responses) {
		n = len(m.Responses) - 1
	}
	return m.Responses[n], nil
}

// Calls reports how many times Generate ran.
func (m *MockProvider) Calls() int {
	return int(m.calls.Load())
}
