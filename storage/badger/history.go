package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/shopsearch/core"
	"github.com/poiesic/shopsearch/storage"
)

// maxConflictRetries bounds how often an update is retried after a
// transaction conflict with another writer.
const maxConflictRetries = 3

// HistoryRepository implements storage.HistoryRepository for BadgerDB.
// Each namespace holds one serialized history list.
type HistoryRepository struct {
	backend *Backend
	key     []byte
}

var _ storage.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a new HistoryRepository for namespace.
// An empty namespace selects DefaultNamespace.
func NewHistoryRepository(backend *Backend, namespace string) *HistoryRepository {
	return &HistoryRepository{
		backend: backend,
		key:     makeHistoryKey(namespace),
	}
}

// Close is a no-op; the backend is owned by the caller.
func (r *HistoryRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *HistoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// LoadHistory retrieves the stored history list.
// Returns nil, nil if no list has been stored.
func (r *HistoryRepository) LoadHistory(ctx context.Context) ([]core.HistoryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var items []core.HistoryItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		items, err = r.read(tx)
		return err
	}, false)

	return items, err
}

// UpdateHistory replaces the stored list with the result of fn inside a
// single read-write transaction. Conflicting writers cause a retry. A stored
// list that cannot be decoded is handed to fn as empty and overwritten.
func (r *HistoryRepository) UpdateHistory(ctx context.Context, fn storage.HistoryUpdater) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = r.backend.WithTx(func(tx *badger.Txn) error {
			current, err := r.read(tx)
			if isCorrupted(err) {
				r.backend.logger.Warn("discarding undecodable history", "key", string(r.key), "err", err)
				current, err = nil, nil
			}
			if err != nil {
				return err
			}
			next, err := fn(current)
			if err != nil {
				return err
			}
			if err := tx.Set(r.key, storage.MarshalHistory(next)); err != nil {
				return err
			}
			return tx.Commit()
		}, true)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		r.backend.logger.Debug("history update conflict, retrying", "attempt", attempt+1)
	}
	return err
}

// ClearHistory deletes the stored history list.
func (r *HistoryRepository) ClearHistory(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(r.key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// read loads the list within tx.
func (r *HistoryRepository) read(tx *badger.Txn) ([]core.HistoryItem, error) {
	item, err := tx.Get(r.key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var items []core.HistoryItem
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		items, unmarshalErr = storage.UnmarshalHistory(val)
		return unmarshalErr
	})
	return items, err
}

// isCorrupted reports whether err means the stored bytes cannot be decoded.
func isCorrupted(err error) bool {
	return errors.Is(err, storage.ErrSerializationFailed) ||
		errors.Is(err, storage.ErrTruncatedData) ||
		errors.Is(err, storage.ErrUnsupportedVersion)
}
