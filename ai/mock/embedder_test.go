package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedTextDeterministicUnitVector(t *testing.T) {
	embedder := NewMockEmbedder()

	first, err := embedder.EmbedText(context.Background(), "attention is all you need")
	require.NoError(t, err)
	second, err := embedder.EmbedText(context.Background(), "attention is all you need")
	require.NoError(t, err)
	other, err := embedder.EmbedText(context.Background(), "a different chunk of text")
	require.NoError(t, err)

	assert.Len(t, first, MockDimension)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)

	var sumSquares float64
	for _, v := range first {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-4)

	assert.Equal(t, 3, embedder.CallCount())
}

func TestEmbedTextsMatchesEmbedText(t *testing.T) {
	embedder := NewMockEmbedder()

	single, err := embedder.EmbedText(context.Background(), "chunk one")
	require.NoError(t, err)

	batch, err := embedder.EmbedTexts(context.Background(), []string{"chunk one", "chunk two"})
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, single, batch[0])
	assert.NotEqual(t, batch[0], batch[1])
}

func TestEmbedderInjectionAndReset(t *testing.T) {
	embedder := NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}

	_, err := embedder.EmbedText(context.Background(), "anything")
	assert.Error(t, err)
	assert.Equal(t, 1, embedder.CallCount())

	embedder.Reset()
	assert.Equal(t, 0, embedder.CallCount())

	vec, err := embedder.EmbedText(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, vec, MockDimension)
}
