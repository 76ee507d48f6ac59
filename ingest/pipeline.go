package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/paperreader/paperbot/ai"
	"github.com/paperreader/paperbot/core"
	"github.com/paperreader/paperbot/download"
	"github.com/paperreader/paperbot/feed"
	"github.com/paperreader/paperbot/index"
	"github.com/paperreader/paperbot/pdftext"
	"github.com/paperreader/paperbot/storage"
)

// Poster delivers a rendered summary to the conversation system and
// returns the topic it was posted under. Delivery failure is reported
// via the boolean, never an error: a paper whose announcement cannot
// be delivered still completes, it just never gets a topic bound.
type Poster interface {
	PostSummary(ctx context.Context, paper *core.Paper) (topic string, posted bool)
}

// Pipeline moves papers through the ingestion state machine:
// download, extract, summarize, build index, announce, complete.
type Pipeline struct {
	config    *Config
	papers    storage.PaperRepository
	detector  *feed.Detector
	downloads *download.Manager
	provider  ai.AIProvider
	builder   *index.Builder
	poster    Poster
	extract   func(path string) (string, error)
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPoster attaches a messaging bridge. Without one, papers complete
// with no topic bound.
func WithPoster(p Poster) Option {
	return func(pl *Pipeline) {
		pl.poster = p
	}
}

// WithExtractor overrides text extraction, mainly for tests.
func WithExtractor(fn func(path string) (string, error)) Option {
	return func(pl *Pipeline) {
		pl.extract = fn
	}
}

// NewPipeline wires an ingestion pipeline over the given collaborators.
func NewPipeline(config *Config, papers storage.PaperRepository, detector *feed.Detector,
	downloads *download.Manager, provider ai.AIProvider, builder *index.Builder, opts ...Option) (*Pipeline, error) {

	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		config:    config,
		papers:    papers,
		detector:  detector,
		downloads: downloads,
		provider:  provider,
		builder:   builder,
		extract:   pdftext.ExtractFile,
		logger:    slog.Default().With("component", "ingest"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Process runs one paper through the state machine. Completed papers
// are a no-op, so re-processing is always safe. Failed papers are
// re-offered only while their retry count is under the budget.
func (p *Pipeline) Process(ctx context.Context, id string) error {
	paper, err := p.papers.GetPaper(ctx, id)
	if err != nil {
		return err
	}

	switch paper.Status {
	case core.StatusCompleted:
		p.logger.Debug("paper already completed", "paper", id)
		return nil
	case core.StatusFailed:
		if !paper.Retryable(p.config.MaxRetries) {
			p.logger.Debug("paper permanently failed", "paper", id, "retries", paper.RetryCount)
			return nil
		}
		// Retry edge: failed papers go back through pending.
		if paper, err = p.transition(ctx, paper, core.StatusPending); err != nil {
			return err
		}
	case core.StatusProcessing:
		// A processing paper here means a previous run died mid-entry.
		// Park it as failed so the retry path picks it up.
		return p.markFailed(ctx, paper, errors.New("interrupted before reaching a terminal status"))
	}

	if paper, err = p.transition(ctx, paper, core.StatusProcessing); err != nil {
		return err
	}

	p.logger.Info("ingesting paper", "paper", id, "title", paper.Title, "attempt", paper.RetryCount+1)

	// One recover per entry: a panic in any stage fails this paper
	// without taking down the cycle.
	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic during ingestion: %v", r)
			}
		}()
		return p.ingest(ctx, paper)
	}()
	if err != nil {
		if markErr := p.markFailed(ctx, paper, err); markErr != nil {
			p.logger.Error("failed to record failure", "paper", id, "err", markErr)
		}
		return err
	}

	paper.ErrorMessage = ""
	if _, err := p.transition(ctx, paper, core.StatusCompleted); err != nil {
		return err
	}

	p.logger.Info("paper completed", "paper", id, "topic", paper.Topic)
	return nil
}

// ingest runs the per-paper stages in order. The paper is mutated in
// place; the caller persists the terminal status.
func (p *Pipeline) ingest(ctx context.Context, paper *core.Paper) error {
	dest := filepath.Join(p.config.PDFDir, paper.ID+".pdf")
	if err := p.downloads.Fetch(ctx, paper.PDFLink, dest); err != nil {
		return err
	}
	paper.LocalPDF = dest

	text, err := p.extract(dest)
	if err != nil {
		return err
	}

	chunks, err := index.SplitText(text)
	if err != nil {
		return err
	}

	summary, err := p.provider.Summarizer().Summarize(ctx, paper.Title, chunks)
	if err != nil {
		return err
	}
	paper.Summary = summary

	if _, err := p.builder.BuildOrLoad(ctx, paper.ID, text); err != nil {
		return err
	}

	if p.poster != nil {
		if topic, posted := p.poster.PostSummary(ctx, paper); posted {
			if err := p.papers.SetTopic(ctx, paper.ID, topic); err != nil {
				// Topic binding conflicts are logged, not fatal: the
				// summary is delivered and the paper can complete.
				p.logger.Warn("could not bind topic", "paper", paper.ID, "topic", topic, "err", err)
			} else {
				paper.Topic = topic
			}
		}
	}

	return nil
}

// transition moves a paper to the next lifecycle state, enforcing the
// transition table before persisting.
func (p *Pipeline) transition(ctx context.Context, paper *core.Paper, next core.Status) (*core.Paper, error) {
	if !paper.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s -> %s for paper %s",
			core.ErrInvalidTransition, paper.Status, next, paper.ID)
	}
	paper.Status = next
	return p.papers.UpdatePaper(ctx, paper)
}

// markFailed records a failed attempt: status failed, retry count
// incremented, error message captured for the list surface.
func (p *Pipeline) markFailed(ctx context.Context, paper *core.Paper, cause error) error {
	p.logger.Warn("paper failed", "paper", paper.ID, "retries", paper.RetryCount+1, "err", cause)

	paper.RetryCount++
	paper.ErrorMessage = cause.Error()

	if _, err := p.transition(ctx, paper, core.StatusFailed); err != nil {
		return err
	}
	return nil
}
