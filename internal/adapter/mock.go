package adapter

import (
	"context"
	"fmt"
)

// Mock is a canned Generator for tests and --dry-run runs. It records
// the requests it receives and replies with either queued responses or
// a deterministic echo.
type Mock struct {
	Requests  []Request
	Responses []string
	Err       error
}

// NewMock creates a Mock with no queued responses.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Info() ModelInfo {
	return ModelInfo{Name: "mock", Provider: ProviderMock}
}

func (m *Mock) Generate(_ context.Context, req Request) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) > 0 {
		resp := m.Responses[0]
		m.Responses = m.Responses[1:]
		return resp, nil
	}
	return fmt.Sprintf("[mock] generated code for: %s", truncate(req.Prompt, 80)), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
