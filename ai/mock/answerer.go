package mock

import (
	"context"
	"fmt"
)

// MockAnswerer is a test double for ai.Answerer.
// It allows custom behavior injection via function fields.
type MockAnswerer struct {
	// AnswerFunc is called by Answer if set.
	// If nil, echoes the question with the number of grounding chunks.
	AnswerFunc func(ctx context.Context, title, question string, contextChunks []string) (string, error)

	callCount int
}

// NewMockAnswerer creates a mock answerer with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockAnswerer().
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// Answer returns a deterministic answer referencing the question.
func (m *MockAnswerer) Answer(ctx context.Context, title, question string, contextChunks []string) (string, error) {
	m.callCount++

	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, title, question, contextChunks)
	}

	return fmt.Sprintf("mock answer to %q based on %d chunks", question, len(contextChunks)), nil
}

// CallCount returns the number of times Answer was called.
func (m *MockAnswerer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockAnswerer) Reset() {
	m.callCount = 0
	m.AnswerFunc = nil
}
