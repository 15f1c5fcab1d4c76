package mock

import (
	"context"
	"strings"

	"github.com/tastetrail/tastetrail/ai"
)

// MockIntentParser is a test double for ai.IntentParser.
// It allows custom behavior injection via function fields.
type MockIntentParser struct {
	// ParseIntentsFunc is called by ParseIntents if set.
	// If nil, uses default heuristic behavior.
	ParseIntentsFunc func(ctx context.Context, query string) ([]ai.Intent, error)

	callCount int
}

// NewMockIntentParser creates a mock parser with default heuristic behavior.
// Note: Returns concrete type to allow test assertions via GetMockParser().
func NewMockIntentParser() *MockIntentParser {
	return &MockIntentParser{}
}

// ParseIntents splits the query on " then " separators; each fragment becomes
// one keyword-only intent. This is a crude stand-in for the LLM parser but is
// deterministic and offline.
func (m *MockIntentParser) ParseIntents(ctx context.Context, query string) ([]ai.Intent, error) {
	m.callCount++

	if m.ParseIntentsFunc != nil {
		return m.ParseIntentsFunc(ctx, query)
	}

	fragments := strings.Split(query, " then ")
	intents := make([]ai.Intent, 0, len(fragments))
	for _, fragment := range fragments {
		keyword := strings.TrimSpace(fragment)
		if keyword == "" {
			continue
		}
		intents = append(intents, ai.Intent{Keyword: keyword})
	}
	return intents, nil
}

// CallCount returns the number of times ParseIntents was called.
func (m *MockIntentParser) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockIntentParser) Reset() {
	m.callCount = 0
	m.ParseIntentsFunc = nil
}
