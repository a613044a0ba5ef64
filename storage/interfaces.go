package storage

import (
	"context"

	"github.com/poiesic/shopsearch/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	Close() error
}

// HistoryUpdater receives the current history list and returns its replacement.
// Returning an error aborts the update.
type HistoryUpdater func(items []core.HistoryItem) ([]core.HistoryItem, error)

// HistoryRepository persists a single ordered list of history items.
type HistoryRepository interface {
	Repository

	// LoadHistory returns the stored list, most recent first.
	// Returns nil, nil when nothing has been stored yet.
	LoadHistory(ctx context.Context) ([]core.HistoryItem, error)

	// UpdateHistory atomically replaces the stored list with the result of fn.
	// fn receives nil when nothing has been stored yet.
	UpdateHistory(ctx context.Context, fn HistoryUpdater) error

	// ClearHistory deletes the stored list.
	ClearHistory(ctx context.Context) error
}
