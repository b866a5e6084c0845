package suggest

import (
	"context"
	"errors"
	"sync"
)

// MockSuggester returns canned suggestions keyed by raw name.
type MockSuggester struct {
	mu          sync.Mutex
	Suggestions map[string]Suggestion
	Errors      map[string]error
	Calls       []string
}

// Suggest returns the canned answer for raw, or an error when none exists.
func (m *MockSuggester) Suggest(_ context.Context, raw string) (Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, raw)
	if err, ok := m.Errors[raw]; ok {
		return Suggestion{}, err
	}
	if s, ok := m.Suggestions[raw]; ok {
		return s, nil
	}
	return Suggestion{}, errNoCannedSuggestion
}

var errNoCannedSuggestion = errors.New("no canned suggestion")
