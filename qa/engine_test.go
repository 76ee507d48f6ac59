package qa

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperreader/paperbot/ai/mock"
	"github.com/paperreader/paperbot/core"
	"github.com/paperreader/paperbot/index"
	"github.com/paperreader/paperbot/storage"
	"github.com/paperreader/paperbot/storage/badger"
)

func newTestEngine(t *testing.T) (*Engine, storage.PaperRepository, *index.Builder, *mock.MockProvider) {
	t.Helper()

	papers, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	provider := mock.NewMockProvider().(*mock.MockProvider)
	builder := index.NewBuilder(t.TempDir(), "test-model", provider.GetMockEmbedder())

	return NewEngine(papers, builder, provider), papers, builder, provider
}

func seedCompletedPaper(t *testing.T, papers storage.PaperRepository, builder *index.Builder, topic string) *core.Paper {
	t.Helper()
	ctx := context.Background()

	paper, err := papers.AddPaper(ctx, &core.Paper{
		ID:    "2408.01234",
		Title: "Scaling Laws for Test-Time Compute",
	})
	require.NoError(t, err)

	_, err = builder.BuildOrLoad(ctx, paper.ID, "the paper studies inference scaling behavior in detail")
	require.NoError(t, err)

	paper.Status = core.StatusProcessing
	_, err = papers.UpdatePaper(ctx, paper)
	require.NoError(t, err)
	paper.Status = core.StatusCompleted
	_, err = papers.UpdatePaper(ctx, paper)
	require.NoError(t, err)

	require.NoError(t, papers.SetTopic(ctx, paper.ID, topic))
	return paper
}

func TestAnswerGrounded(t *testing.T) {
	engine, papers, builder, provider := newTestEngine(t)
	seedCompletedPaper(t, papers, builder, "2026-08-31 Scaling Laws")

	var gotTitle string
	var gotChunks []string
	provider.GetMockAnswerer().AnswerFunc = func(ctx context.Context, title, question string, contextChunks []string) (string, error) {
		gotTitle = title
		gotChunks = contextChunks
		return "the answer", nil
	}

	answer, err := engine.Answer(context.Background(), "2026-08-31 Scaling Laws", "what does it study?")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)
	assert.Equal(t, "Scaling Laws for Test-Time Compute", gotTitle)
	assert.NotEmpty(t, gotChunks, "answer must be grounded in retrieved chunks")
}

func TestAnswerUnknownThread(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	_, err := engine.Answer(context.Background(), "no such topic", "question?")
	require.Error(t, err)

	var corrErr *CorrelationError
	require.ErrorAs(t, err, &corrErr)
	assert.Equal(t, "no such topic", corrErr.Topic)
	assert.ErrorIs(t, err, ErrUnknownThread)
}

func TestAnswerIndexNotReady(t *testing.T) {
	engine, papers, _, _ := newTestEngine(t)
	ctx := context.Background()

	paper, err := papers.AddPaper(ctx, &core.Paper{ID: "2408.09999", Title: "Pending Paper"})
	require.NoError(t, err)
	require.NoError(t, papers.SetTopic(ctx, paper.ID, "2026-08-31 Pending Paper"))

	_, err = engine.Answer(ctx, "2026-08-31 Pending Paper", "question?")
	assert.ErrorIs(t, err, ErrIndexNotReady)
}

func TestAnswerMissingIndexFile(t *testing.T) {
	engine, papers, _, _ := newTestEngine(t)
	ctx := context.Background()

	paper, err := papers.AddPaper(ctx, &core.Paper{ID: "2408.08888", Title: "Ghost Paper"})
	require.NoError(t, err)

	paper.Status = core.StatusProcessing
	_, err = papers.UpdatePaper(ctx, paper)
	require.NoError(t, err)
	paper.Status = core.StatusCompleted
	_, err = papers.UpdatePaper(ctx, paper)
	require.NoError(t, err)
	require.NoError(t, papers.SetTopic(ctx, paper.ID, "2026-08-31 Ghost Paper"))

	_, err = engine.Answer(ctx, "2026-08-31 Ghost Paper", "question?")
	assert.ErrorIs(t, err, ErrIndexNotReady, "completed paper without an index file is not answerable")
}

func TestWithTopK(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	assert.Equal(t, DefaultTopK, engine.topK)

	e := NewEngine(nil, nil, nil, WithTopK(7))
	assert.Equal(t, 7, e.topK)

	e = NewEngine(nil, nil, nil, WithTopK(0))
	assert.Equal(t, DefaultTopK, e.topK)
}
