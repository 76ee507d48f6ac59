package ingest

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/paperreader/paperbot/core"
	"github.com/paperreader/paperbot/feed"
	"github.com/paperreader/paperbot/storage"
)

// Cycle runs one full ingestion pass: recover interrupted entries,
// detect new catalog entries, then process everything pending or
// retryable. A failing entry never stops the pass; a failing detection
// skips the pass.
//
// The retry candidates are snapshotted before the pending pass: an
// entry that fails during this cycle waits for the next one instead of
// being re-offered immediately.
func (p *Pipeline) Cycle(ctx context.Context) error {
	if err := p.recoverInterrupted(ctx); err != nil {
		return err
	}

	retryable, err := p.papers.ListRetryable(ctx, p.config.MaxRetries)
	if err != nil {
		return err
	}

	entries, err := p.detector.Detect(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if _, err := p.papers.AddPaper(ctx, entryToPaper(entry)); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				continue
			}
			p.logger.Error("failed to catalog paper", "paper", entry.ID, "err", err)
		}
	}

	if err := p.processBatch(ctx, core.StatusPending); err != nil {
		return err
	}
	return p.retryBatch(ctx, retryable)
}

// Run cycles until the context is cancelled, sleeping a randomized
// interval between passes so fetches do not land on a fixed schedule.
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		if err := p.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Error("ingestion cycle failed", "err", err)
		}

		sleep := p.sleepInterval()
		p.logger.Info("cycle complete, sleeping", "duration", sleep)

		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Pipeline) sleepInterval() time.Duration {
	span := p.config.SleepMax - p.config.SleepMin
	if span <= 0 {
		return p.config.SleepMin
	}
	return p.config.SleepMin + rand.N(span)
}

// recoverInterrupted parks papers stuck in processing from a previous
// run as failed, feeding them back through the retry path.
func (p *Pipeline) recoverInterrupted(ctx context.Context) error {
	stuck, err := p.papers.ListPapersByStatus(ctx, core.StatusProcessing)
	if err != nil {
		return err
	}
	for _, paper := range stuck {
		p.logger.Warn("recovering interrupted paper", "paper", paper.ID)
		if err := p.markFailed(ctx, paper, errors.New("interrupted before reaching a terminal status")); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) processBatch(ctx context.Context, status core.Status) error {
	papers, err := p.papers.ListPapersByStatus(ctx, status)
	if err != nil {
		return err
	}
	for _, paper := range papers {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := p.Process(ctx, paper.ID); err != nil {
			p.logger.Error("paper ingestion failed", "paper", paper.ID, "err", err)
		}
	}
	return nil
}

// retryBatch re-offers papers that were already failed-but-retryable
// when the cycle started. Process re-checks each paper's state, so one
// that was somehow handled in the meantime is a no-op here.
func (p *Pipeline) retryBatch(ctx context.Context, papers []*core.Paper) error {
	for _, paper := range papers {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := p.Process(ctx, paper.ID); err != nil {
			p.logger.Error("paper retry failed", "paper", paper.ID, "err", err)
		}
	}
	return nil
}

// entryToPaper creates the durable record for a freshly detected entry.
func entryToPaper(entry feed.Entry) *core.Paper {
	return &core.Paper{
		ID:         entry.ID,
		Title:      entry.Title,
		Authors:    entry.Authors,
		SourceLink: entry.SourceLink,
		PDFLink:    entry.PDFLink,
		Upvotes:    entry.Upvotes,
		Comments:   entry.Comments,
		Status:     core.StatusPending,
	}
}
