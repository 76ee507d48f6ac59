package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/paperreader/paperbot/core"
	"github.com/paperreader/paperbot/storage"
)

// PaperRepository implements storage.PaperRepository for BadgerDB.
type PaperRepository struct {
	backend *Backend
}

var _ storage.PaperRepository = (*PaperRepository)(nil)

// NewPaperRepository creates a new PaperRepository.
func NewPaperRepository(backend *Backend) (*PaperRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &PaperRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *PaperRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *PaperRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddPaper inserts a new paper. The id is the caller-supplied external
// identifier; an existing id is never overwritten.
func (r *PaperRepository) AddPaper(ctx context.Context, paper *core.Paper) (*core.Paper, error) {
	if paper != nil && paper.Status == "" {
		paper.Status = core.StatusPending
	}
	if err := core.ValidatePaper(paper); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makePaperKey(paper.ID)

		existing, err := r.readPaper(tx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			return storage.ErrDuplicateKey
		}

		paper.CreatedAt = time.Now().UTC()
		paper.UpdatedAt = paper.CreatedAt

		value, err := storage.MarshalPaper(paper)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}

		// Status index
		if err := tx.Set(makeStatusKey(paper.Status, paper.ID), []byte(paper.ID)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return paper, nil
}

// UpdatePaper persists changes to an existing paper.
// The topic field is not updatable here; SetTopic is the only writer of the
// topic binding so it stays permanent once assigned.
func (r *PaperRepository) UpdatePaper(ctx context.Context, paper *core.Paper) (*core.Paper, error) {
	if err := core.ValidatePaper(paper); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makePaperKey(paper.ID)

		old, err := r.readPaper(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		paper.Topic = old.Topic
		paper.CreatedAt = old.CreatedAt
		paper.UpdatedAt = time.Now().UTC()

		value, err := storage.MarshalPaper(paper)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}

		// Keep the status index consistent
		if old.Status != paper.Status {
			if err := tx.Delete(makeStatusKey(old.Status, old.ID)); err != nil {
				return err
			}
			if err := tx.Set(makeStatusKey(paper.Status, paper.ID), []byte(paper.ID)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return paper, nil
}

// SetTopic binds a conversation topic to a paper, exactly once.
func (r *PaperRepository) SetTopic(ctx context.Context, id, topic string) error {
	if topic == "" {
		return errors.New("topic cannot be empty")
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makePaperKey(id)

		paper, err := r.readPaper(tx, key)
		if err != nil {
			return err
		}
		if paper == nil {
			return storage.ErrNotFound
		}

		if paper.Topic != "" {
			if paper.Topic == topic {
				return nil // already bound to this topic
			}
			return storage.ErrTopicAlreadySet
		}

		// Reject a topic already bound to a different paper
		topicKey := makeTopicKey(topic)
		item, err := tx.Get(topicKey)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err == nil {
			boundID, copyErr := item.ValueCopy(nil)
			if copyErr != nil {
				return copyErr
			}
			if string(boundID) != id {
				return storage.ErrTopicTaken
			}
		}

		paper.Topic = topic
		paper.UpdatedAt = time.Now().UTC()

		value, err := storage.MarshalPaper(paper)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		if err := tx.Set(topicKey, []byte(id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// GetPaper retrieves a single paper by id.
func (r *PaperRepository) GetPaper(ctx context.Context, id string) (*core.Paper, error) {
	var result *core.Paper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readPaper(tx, makePaperKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// HasPaper reports whether a paper with the given id exists.
func (r *PaperRepository) HasPaper(ctx context.Context, id string) (bool, error) {
	_, err := r.GetPaper(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetPaperByTopic resolves a topic to its paper via the topic index.
func (r *PaperRepository) GetPaperByTopic(ctx context.Context, topic string) (*core.Paper, error) {
	var result *core.Paper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTopicKey(topic))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}

		result, err = r.readPaper(tx, makePaperKey(string(id)))
		if err != nil {
			return err
		}
		if result == nil {
			// Dangling index entry; treat as absent.
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListPapersByStatus returns all papers in the given status, ordered by id.
func (r *PaperRepository) ListPapersByStatus(ctx context.Context, status core.Status) ([]*core.Paper, error) {
	if !status.Valid() {
		return nil, core.ErrInvalidStatus
	}

	var papers []*core.Paper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeStatusScanPrefix(status)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			id := paperIDFromStatusKey(iter.Item().Key())
			if id == "" {
				continue
			}
			paper, err := r.readPaper(tx, makePaperKey(id))
			if err != nil {
				return err
			}
			if paper != nil {
				papers = append(papers, paper)
			}
		}
		return nil
	}, false)

	return papers, err
}

// ListRetryable returns failed papers still within the retry budget.
func (r *PaperRepository) ListRetryable(ctx context.Context, maxRetries int) ([]*core.Paper, error) {
	failed, err := r.ListPapersByStatus(ctx, core.StatusFailed)
	if err != nil {
		return nil, err
	}

	retryable := failed[:0]
	for _, paper := range failed {
		if paper.Retryable(maxRetries) {
			retryable = append(retryable, paper)
		}
	}
	return retryable, nil
}

// readPaper reads and unmarshals a paper record within a transaction.
// Returns nil (no error) if the key doesn't exist.
func (r *PaperRepository) readPaper(tx *badger.Txn, key []byte) (*core.Paper, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	return storage.UnmarshalPaper(value)
}
