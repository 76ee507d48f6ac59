// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Summarizer,
// ai.Answerer, and ai.AIProvider for use in unit tests. The mocks allow tests
// to run without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	embeddings, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockSummarizer := mock.NewMockSummarizer()
//	mockSummarizer.SummarizeFunc = func(ctx context.Context, title string, chunks []string) (*core.Summary, error) {
//	    return nil, errors.New("summarizer unavailable")
//	}
//
//	// Check call counts
//	count := mockSummarizer.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockSummarizer: Returns a fully populated summary derived from the title
//   - MockAnswerer: Echoes the question with the chunk count
//   - MockProvider: Aggregates the mock services
package mock
