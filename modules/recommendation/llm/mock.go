package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client for tests. Replies are served in call
// order; when the script runs out, the last reply repeats.
type MockClient struct {
	mu      sync.Mutex
	Replies []string
	Errs    []error
	calls   int
}

func (m *MockClient) Complete(_ context.Context, _, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.calls
	m.calls++

	if idx < len(m.Errs) && m.Errs[idx] != nil {
		return "", m.Errs[idx]
	}
	if len(m.Replies) == 0 {
		return "", nil
	}
	if idx >= len(m.Replies) {
		idx = len(m.Replies) - 1
	}
	return m.Replies[idx], nil
}

// Calls reports how many times Complete ran.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
