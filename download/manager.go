package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultMaxAttempts bounds how many times a single artifact is tried.
	DefaultMaxAttempts = 10

	// DefaultAttemptTimeout bounds each individual attempt.
	DefaultAttemptTimeout = 30 * time.Second

	// DefaultRetryDelay is the fixed pause between attempts.
	DefaultRetryDelay = 1 * time.Second
)

// Manager downloads artifacts to the local filesystem with bounded
// retry. Writes are atomic: a partial download never lands at the
// destination path.
type Manager struct {
	client      *http.Client
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxAttempts sets the per-artifact attempt bound.
func WithMaxAttempts(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithAttemptTimeout sets the per-attempt timeout.
func WithAttemptTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.client.Timeout = d
		}
	}
}

// WithRetryDelay sets the pause between attempts. Tests shorten it.
func WithRetryDelay(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.retryDelay = d
		}
	}
}

// NewManager creates a download manager with the default bounds.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		client:      &http.Client{Timeout: DefaultAttemptTimeout},
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
		logger:      slog.Default().With("component", "download"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fetch downloads url to dest. If dest already exists the download is
// skipped entirely, making re-runs idempotent. On exhaustion it returns
// a *FetchError describing the final failure; the set of attempts per
// call never exceeds the configured bound.
func (m *Manager) Fetch(ctx context.Context, url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		m.logger.Debug("artifact already present, skipping", "dest", dest)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	var lastStatus int
	var lastErr error

	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		lastStatus, lastErr = m.attempt(ctx, url, dest)
		if lastErr == nil {
			m.logger.Info("downloaded artifact", "url", url, "dest", dest, "attempt", attempt)
			return nil
		}

		m.logger.Warn("download attempt failed",
			"url", url, "attempt", attempt, "max", m.maxAttempts, "err", lastErr)

		// No pause after the final attempt.
		if attempt < m.maxAttempts {
			select {
			case <-time.After(m.retryDelay):
			case <-ctx.Done():
				return &FetchError{URL: url, Attempts: attempt, LastStatus: lastStatus, Err: ctx.Err()}
			}
		}
	}

	return &FetchError{URL: url, Attempts: m.maxAttempts, LastStatus: lastStatus, Err: lastErr}
}

// attempt performs one download try, writing to a temporary file and
// renaming into place only after the body is fully written.
func (m *Manager) attempt(ctx context.Context, url, dest string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp-*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, err
	}

	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return 0, err
	}

	return resp.StatusCode, nil
}
