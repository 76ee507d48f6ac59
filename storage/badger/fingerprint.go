package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/paperreader/paperbot/storage"
)

// FingerprintRepository implements storage.FingerprintRepository for BadgerDB.
type FingerprintRepository struct {
	backend *Backend
}

var _ storage.FingerprintRepository = (*FingerprintRepository)(nil)

// NewFingerprintRepository creates a new FingerprintRepository.
func NewFingerprintRepository(backend *Backend) *FingerprintRepository {
	return &FingerprintRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *FingerprintRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *FingerprintRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// GetFingerprint returns the stored fingerprint for a fetch window.
func (r *FingerprintRepository) GetFingerprint(ctx context.Context, window string) (string, error) {
	var fingerprint string
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeFingerprintKey(window))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		fingerprint = string(value)
		return nil
	}, false)
	return fingerprint, err
}

// PutFingerprint stores the fingerprint for a fetch window.
func (r *FingerprintRepository) PutFingerprint(ctx context.Context, window, fingerprint string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeFingerprintKey(window), []byte(fingerprint)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
