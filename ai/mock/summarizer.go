package mock

import (
	"context"

	"github.com/paperreader/paperbot/core"
)

// MockSummarizer is a test double for ai.Summarizer.
// It allows custom behavior injection via function fields.
type MockSummarizer struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, returns a canned summary derived from the title.
	SummarizeFunc func(ctx context.Context, title string, chunks []string) (*core.Summary, error)

	callCount int
}

// NewMockSummarizer creates a mock summarizer with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockSummarizer().
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// Summarize returns a fully populated summary built from the title.
// The default summary passes core.ValidateSummary.
func (m *MockSummarizer) Summarize(ctx context.Context, title string, chunks []string) (*core.Summary, error) {
	m.callCount++

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, title, chunks)
	}

	return &core.Summary{
		Title:      title,
		ShortTitle: title,
		Topic:      "mock topic",
		Abstract:   []string{"mock abstract for " + title},
		Analysis:   "mock analysis",
		Conclusion: "mock conclusion",
	}, nil
}

// CallCount returns the number of times Summarize was called.
func (m *MockSummarizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockSummarizer) Reset() {
	m.callCount = 0
	m.SummarizeFunc = nil
}
