package ai

import (
	"context"

	"github.com/paperreader/paperbot/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Summarizer produces a structured summary of a paper from its text chunks.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// Summarize reads the ordered text chunks of a paper and returns a summary
	// with all six required fields populated. A response missing any required
	// field is an error, not a partial summary.
	Summarize(ctx context.Context, title string, chunks []string) (*core.Summary, error)
}

// Answerer composes an answer to a question, grounded in retrieved context.
// Implementations must be thread-safe for concurrent use.
type Answerer interface {
	// Answer generates an answer to the question about the titled paper,
	// using only the supplied context chunks as grounding material.
	Answer(ctx context.Context, title, question string, contextChunks []string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder, Summarizer,
// and Answerer instances sharing configuration and resources.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Summarizer returns the paper summarization service.
	// The returned Summarizer is safe for concurrent use.
	Summarizer() Summarizer

	// Answerer returns the question answering service.
	// The returned Answerer is safe for concurrent use.
	Answerer() Answerer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
