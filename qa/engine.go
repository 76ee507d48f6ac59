package qa

import (
	"context"
	"errors"
	"log/slog"

	"github.com/paperreader/paperbot/ai"
	"github.com/paperreader/paperbot/core"
	"github.com/paperreader/paperbot/index"
	"github.com/paperreader/paperbot/storage"
)

// DefaultTopK is how many chunks ground an answer by default.
const DefaultTopK = 4

// Engine answers questions about papers by correlating the conversation
// topic to a paper, retrieving the most relevant chunks from its index,
// and composing a grounded answer.
type Engine struct {
	papers   storage.PaperRepository
	builder  *index.Builder
	provider ai.AIProvider
	topK     int
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTopK sets how many chunks are retrieved per question.
func WithTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// NewEngine creates a Q&A engine over the catalog and index store.
func NewEngine(papers storage.PaperRepository, builder *index.Builder, provider ai.AIProvider, opts ...Option) *Engine {
	e := &Engine{
		papers:   papers,
		builder:  builder,
		provider: provider,
		topK:     DefaultTopK,
		logger:   slog.Default().With("component", "qa"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Answer resolves the topic to its paper and composes an answer to the
// question from the paper's index. The index is load-only here: a
// missing index is a correlation failure, never a rebuild trigger.
func (e *Engine) Answer(ctx context.Context, topic, question string) (string, error) {
	paper, err := e.papers.GetPaperByTopic(ctx, topic)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", &CorrelationError{Topic: topic, Reason: ErrUnknownThread}
		}
		return "", err
	}

	if paper.Status != core.StatusCompleted {
		return "", &CorrelationError{Topic: topic, Reason: ErrIndexNotReady}
	}

	return e.answerPaper(ctx, topic, paper, question)
}

// AnswerPaper answers a question about a paper addressed directly by
// id, the one-off query surface with no conversation involved.
func (e *Engine) AnswerPaper(ctx context.Context, id, question string) (string, error) {
	paper, err := e.papers.GetPaper(ctx, id)
	if err != nil {
		return "", err
	}
	if paper.Status != core.StatusCompleted {
		return "", &CorrelationError{Topic: paper.Topic, Reason: ErrIndexNotReady}
	}
	return e.answerPaper(ctx, paper.Topic, paper, question)
}

func (e *Engine) answerPaper(ctx context.Context, topic string, paper *core.Paper, question string) (string, error) {
	idx, err := e.builder.Load(paper.ID)
	if err != nil {
		if errors.Is(err, index.ErrIndexNotFound) {
			return "", &CorrelationError{Topic: topic, Reason: ErrIndexNotReady}
		}
		return "", err
	}

	queryVec, err := e.provider.Embedder().EmbedText(ctx, question)
	if err != nil {
		return "", err
	}

	chunks := idx.Search(queryVec, e.topK)
	e.logger.Debug("answering question", "topic", topic, "paper", paper.ID, "chunks", len(chunks))

	return e.provider.Answerer().Answer(ctx, paper.Title, question, chunks)
}
