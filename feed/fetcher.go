package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/paperreader/paperbot/core"
)

// DefaultCatalogURL is the daily papers page fetched when no override is given.
const DefaultCatalogURL = "https://huggingface.co/papers"

// Snapshot is one retrieved copy of the catalog page. The fingerprint
// is computed over the raw bytes and keys change detection.
type Snapshot struct {
	URL         string
	Raw         []byte
	Fingerprint string
	FetchedAt   time.Time
}

// Window returns the dedup window key for this snapshot, the UTC date
// of retrieval. Two snapshots taken the same UTC day share a window.
func (s *Snapshot) Window() string {
	return s.FetchedAt.UTC().Format("2006-01-02")
}

// Fetcher retrieves the catalog page over HTTP.
type Fetcher struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithURL overrides the catalog URL.
func WithURL(url string) FetcherOption {
	return func(f *Fetcher) {
		f.url = url
	}
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a Fetcher for the daily papers catalog.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		url:    DefaultCatalogURL,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: slog.Default().With("component", "feed-fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the catalog page and fingerprints its raw content.
// A non-200 response is a fetch failure, not a parse concern.
func (f *Fetcher) Fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrFetchFailed, resp.StatusCode, f.url)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrFetchFailed, err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyDocument
	}

	snapshot := &Snapshot{
		URL:         f.url,
		Raw:         raw,
		Fingerprint: core.Fingerprint(raw),
		FetchedAt:   time.Now(),
	}

	f.logger.Debug("fetched catalog page",
		"url", f.url, "bytes", len(raw), "fingerprint", snapshot.Fingerprint[:12])

	return snapshot, nil
}
