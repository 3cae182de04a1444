package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Mock is a scripted Client for tests and for running the service without an
// API key. Unset hooks fall back to harmless canned behavior: Complete echoes
// the prompt tail and ExtractTool returns an empty object (no candidate).
type Mock struct {
	mu sync.Mutex

	CompleteFunc func(system, prompt string) (string, error)
	ExtractFunc  func(system, prompt string, tool ToolSpec) (json.RawMessage, error)

	// CompleteCalls and ExtractCalls record the prompts seen, in order.
	CompleteCalls []string
	ExtractCalls  []string
}

// NewMock creates a mock with default canned behavior.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Complete(ctx context.Context, system, prompt string) (string, error) {
	m.mu.Lock()
	m.CompleteCalls = append(m.CompleteCalls, prompt)
	fn := m.CompleteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(system, prompt)
	}
	return "[mock] no model configured", nil
}

func (m *Mock) ExtractTool(ctx context.Context, system, prompt string, tool ToolSpec) (json.RawMessage, error) {
	m.mu.Lock()
	m.ExtractCalls = append(m.ExtractCalls, prompt)
	fn := m.ExtractFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(system, prompt, tool)
	}
	return json.RawMessage(`{}`), nil
}
