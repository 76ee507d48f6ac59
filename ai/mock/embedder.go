package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// MockDimension is the vector width of the default embedding behavior.
// Small enough to keep test indexes cheap while still exercising real
// similarity math.
const MockDimension = 256

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
type MockEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	// If nil, derives a deterministic unit vector from the text.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc is called by EmbedTexts if set.
	// If nil, derives a deterministic unit vector per text.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount int
}

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockEmbedder().
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedText returns a deterministic unit vector derived from the text.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount++

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}

	return textVector(text), nil
}

// EmbedTexts returns one deterministic unit vector per input text.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = textVector(text)
	}
	return vectors, nil
}

// CallCount returns the number of times any method was called.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// textVector derives a unit vector from the text, so identical chunks
// always embed identically and distinct chunks rarely collide. A 64-bit
// FNV digest seeds a linear congruential generator, one draw per
// component, and the result is scaled to unit length so cosine scores
// behave like real embeddings.
func textVector(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()

	vec := make([]float32, MockDimension)
	var sumSquares float64
	for i := range vec {
		state = state*6364136223846793005 + 1442695040888963407
		vec[i] = float32(state>>40) / float32(1<<24)
		sumSquares += float64(vec[i]) * float64(vec[i])
	}

	if norm := math.Sqrt(sumSquares); norm > 0 {
		inv := float32(1 / norm)
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}
