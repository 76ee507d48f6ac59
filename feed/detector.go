package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/paperreader/paperbot/storage"
)

// Detector decides which catalog entries are actually new. It compares
// the page fingerprint against the one recorded for the current dedup
// window, and filters out papers already present in storage.
type Detector struct {
	fetcher      *Fetcher
	papers       storage.PaperRepository
	fingerprints storage.FingerprintRepository
	logger       *slog.Logger
}

// NewDetector creates a Detector over the given fetcher and repositories.
func NewDetector(fetcher *Fetcher, papers storage.PaperRepository, fingerprints storage.FingerprintRepository) *Detector {
	return &Detector{
		fetcher:      fetcher,
		papers:       papers,
		fingerprints: fingerprints,
		logger:       slog.Default().With("component", "feed-detector"),
	}
}

// Detect fetches the catalog page and returns the entries not yet known
// to storage. An unchanged page within the same window short-circuits
// to an empty result without parsing. The window fingerprint is updated
// after a successful detection so a re-run sees the page as unchanged.
func (d *Detector) Detect(ctx context.Context) ([]Entry, error) {
	snapshot, err := d.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	window := snapshot.Window()

	stored, err := d.fingerprints.GetFingerprint(ctx, window)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("reading window fingerprint: %w", err)
	}
	if stored == snapshot.Fingerprint {
		d.logger.Debug("catalog unchanged in window", "window", window)
		return nil, nil
	}

	entries, skipped, err := Parse(snapshot.Raw)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog page: %w", err)
	}
	if len(skipped) > 0 {
		d.logger.Warn("some catalog entries were unparseable", "count", len(skipped))
	}

	fresh := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		known, err := d.papers.HasPaper(ctx, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("checking paper %s: %w", entry.ID, err)
		}
		if known {
			continue
		}
		fresh = append(fresh, entry)
	}

	if err := d.fingerprints.PutFingerprint(ctx, window, snapshot.Fingerprint); err != nil {
		return nil, fmt.Errorf("recording window fingerprint: %w", err)
	}

	d.logger.Info("catalog detection complete",
		"window", window, "entries", len(entries), "new", len(fresh))

	return fresh, nil
}
