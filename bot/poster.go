package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/paperreader/paperbot/core"
	"github.com/paperreader/paperbot/zulip"
)

// SummaryPoster announces completed papers to the Zulip stream. The
// topic it posts under becomes the paper's conversation thread key.
type SummaryPoster struct {
	client *zulip.Client
	now    func() time.Time
	logger *slog.Logger
}

// NewSummaryPoster creates a poster over the given client.
func NewSummaryPoster(client *zulip.Client) *SummaryPoster {
	return &SummaryPoster{
		client: client,
		now:    time.Now,
		logger: slog.Default().With("component", "summary-poster"),
	}
}

// PostSummary renders and delivers the paper's summary. The topic is
// the UTC date plus the summary's short title, matching the thread
// naming users see in the stream. A failed delivery reports false and
// the paper completes without a topic.
func (p *SummaryPoster) PostSummary(ctx context.Context, paper *core.Paper) (string, bool) {
	if paper.Summary == nil {
		p.logger.Warn("paper has no summary to post", "paper", paper.ID)
		return "", false
	}

	topic := p.now().UTC().Format("2006-01-02") + " " + paper.Summary.ShortTitle
	result := p.client.Post(ctx, topic, FormatSummary(paper))
	if result == nil {
		return "", false
	}
	return result.Topic, true
}
