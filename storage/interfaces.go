package storage

import (
	"context"

	"github.com/paperreader/paperbot/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// PaperRepository provides operations for managing the paper catalog.
// Papers are keyed by their stable external id; ids are never regenerated
// and rows are never deleted.
type PaperRepository interface {
	Repository

	// AddPaper inserts a new paper at status pending.
	// Sets CreatedAt/UpdatedAt. Returns ErrDuplicateKey if the id already
	// exists; an existing entry is never overwritten.
	AddPaper(ctx context.Context, paper *core.Paper) (*core.Paper, error)

	// GetPaper retrieves a paper by id.
	// Returns ErrNotFound if no paper with that id exists.
	GetPaper(ctx context.Context, id string) (*core.Paper, error)

	// HasPaper reports whether a paper with the given id exists.
	HasPaper(ctx context.Context, id string) (bool, error)

	// GetPaperByTopic resolves a conversation topic to its paper via the
	// topic index. Returns ErrNotFound if no paper is bound to the topic.
	GetPaperByTopic(ctx context.Context, topic string) (*core.Paper, error)

	// UpdatePaper persists changes to an existing paper and refreshes
	// UpdatedAt. The status index is kept consistent.
	// Returns ErrNotFound if the paper doesn't exist.
	UpdatePaper(ctx context.Context, paper *core.Paper) (*core.Paper, error)

	// SetTopic binds a conversation topic to a paper, exactly once.
	// Returns ErrTopicAlreadySet if the paper already has a topic and
	// ErrTopicTaken if the topic is bound to a different paper, so the
	// topic-to-paper mapping stays a bijection.
	SetTopic(ctx context.Context, id, topic string) error

	// ListPapersByStatus returns all papers currently in the given status,
	// ordered by id.
	ListPapersByStatus(ctx context.Context, status core.Status) ([]*core.Paper, error)

	// ListRetryable returns failed papers whose retry count is below
	// maxRetries, ordered by id.
	ListRetryable(ctx context.Context, maxRetries int) ([]*core.Paper, error)
}

// FingerprintRepository stores the content fingerprint of the last fetched
// catalog snapshot, keyed by fetch window.
type FingerprintRepository interface {
	Repository

	// GetFingerprint returns the stored fingerprint for a fetch window.
	// Returns ErrNotFound if no fingerprint has been stored for the window.
	GetFingerprint(ctx context.Context, window string) (string, error)

	// PutFingerprint stores the fingerprint for a fetch window, replacing
	// any previous value.
	PutFingerprint(ctx context.Context, window, fingerprint string) error
}
