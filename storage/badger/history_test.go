package badger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/shopsearch/core"
	"github.com/poiesic/shopsearch/history"
	"github.com/poiesic/shopsearch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyItem(id string, clicks int, at time.Time) core.HistoryItem {
	return core.HistoryItem{
		SearchResult: core.SearchResult{
			Id:    id,
			Type:  core.ResultTypeService,
			Title: "Serviço " + id,
			Href:  "/services?id=" + id,
		},
		SearchedAt: at,
		ClickCount: clicks,
	}
}

// putRaw stores raw bytes under the repository's history key.
func putRaw(t *testing.T, r *HistoryRepository, data []byte) {
	t.Helper()
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(r.key, data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)
}

func TestHistoryRepository_LoadEmpty(t *testing.T) {
	repo, backend, err := NewMemoryHistoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	items, err := repo.LoadHistory(context.Background())
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestHistoryRepository_UpdateAndLoad(t *testing.T) {
	repo, backend, err := NewMemoryHistoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	err = repo.UpdateHistory(ctx, func(items []core.HistoryItem) ([]core.HistoryItem, error) {
		assert.Nil(t, items)
		return []core.HistoryItem{historyItem("a", 1, now)}, nil
	})
	require.NoError(t, err)

	err = repo.UpdateHistory(ctx, func(items []core.HistoryItem) ([]core.HistoryItem, error) {
		require.Len(t, items, 1)
		return append([]core.HistoryItem{historyItem("b", 2, now.Add(time.Minute))}, items...), nil
	})
	require.NoError(t, err)

	items, err := repo.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.HistoryItem{
		historyItem("b", 2, now.Add(time.Minute)),
		historyItem("a", 1, now),
	}, items)
}

func TestHistoryRepository_UpdateAborts(t *testing.T) {
	repo, backend, err := NewMemoryHistoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.UpdateHistory(ctx, func([]core.HistoryItem) ([]core.HistoryItem, error) {
		return []core.HistoryItem{historyItem("a", 1, now)}, nil
	}))

	boom := errors.New("boom")
	err = repo.UpdateHistory(ctx, func([]core.HistoryItem) ([]core.HistoryItem, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	items, err := repo.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestHistoryRepository_Clear(t *testing.T) {
	repo, backend, err := NewMemoryHistoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	require.NoError(t, repo.UpdateHistory(ctx, func([]core.HistoryItem) ([]core.HistoryItem, error) {
		return []core.HistoryItem{historyItem("a", 1, time.Now().UTC())}, nil
	}))
	require.NoError(t, repo.ClearHistory(ctx))

	items, err := repo.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Nil(t, items)

	// Clearing an empty history is not an error
	assert.NoError(t, repo.ClearHistory(ctx))
}

func TestHistoryRepository_Namespaces(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	front := NewHistoryRepository(backend, "front-desk")
	office := NewHistoryRepository(backend, "office")

	require.NoError(t, front.UpdateHistory(ctx, func([]core.HistoryItem) ([]core.HistoryItem, error) {
		return []core.HistoryItem{historyItem("a", 1, time.Now().UTC())}, nil
	}))

	items, err := office.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHistoryRepository_CorruptedData(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()
	repo := NewHistoryRepository(backend, "")

	putRaw(t, repo, []byte{0xff})

	_, err = repo.LoadHistory(context.Background())
	assert.Error(t, err)

	var seen []core.HistoryItem
	err = repo.UpdateHistory(context.Background(), func(items []core.HistoryItem) ([]core.HistoryItem, error) {
		seen = items
		return []core.HistoryItem{historyItem("a", 1, time.Now().UTC())}, nil
	})
	require.NoError(t, err)
	assert.Empty(t, seen)

	items, err := repo.LoadHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Id)
}

func TestHistoryRepository_UnsupportedVersionRecovers(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()
	repo := NewHistoryRepository(backend, "")

	valid := storage.MarshalHistory([]core.HistoryItem{historyItem("a", 1, time.Now().UTC())})
	valid[0] = 0x7e
	putRaw(t, repo, valid)

	_, err = repo.LoadHistory(context.Background())
	assert.ErrorIs(t, err, storage.ErrUnsupportedVersion)

	err = repo.UpdateHistory(context.Background(), func(items []core.HistoryItem) ([]core.HistoryItem, error) {
		return items, nil
	})
	require.NoError(t, err)

	items, err := repo.LoadHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHistoryRepository_ClosedBackend(t *testing.T) {
	repo, backend, err := NewMemoryHistoryRepository()
	require.NoError(t, err)
	require.NoError(t, backend.Close())
	ctx := context.Background()

	_, err = repo.LoadHistory(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	err = repo.UpdateHistory(ctx, func(items []core.HistoryItem) ([]core.HistoryItem, error) { return items, nil })
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	assert.ErrorIs(t, repo.ClearHistory(ctx), storage.ErrStorageClosed)
}

func TestHistoryRepository_CanceledContext(t *testing.T) {
	repo, backend, err := NewMemoryHistoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.LoadHistory(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHistoryRepository_ConcurrentUpdates(t *testing.T) {
	repo, backend, err := NewMemoryHistoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	var failed sync.Map
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.UpdateHistory(ctx, func(items []core.HistoryItem) ([]core.HistoryItem, error) {
				id := string(rune('a' + i))
				return append(items, historyItem(id, 1, time.Now().UTC())), nil
			})
			if err != nil {
				failed.Store(i, err)
			}
		}()
	}
	wg.Wait()

	items, err := repo.LoadHistory(ctx)
	require.NoError(t, err)

	failures := 0
	failed.Range(func(_, _ any) bool {
		failures++
		return true
	})
	assert.Equal(t, 8, len(items)+failures)
}

func TestHistoryStore_SaveReplacesCorruptedHistory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()
	repo := NewHistoryRepository(backend, "")
	putRaw(t, repo, []byte{0xff})

	store, err := history.NewStore(repo)
	require.NoError(t, err)
	ctx := context.Background()

	result := core.SearchResult{Id: "svc-corte", Type: core.ResultTypeService, Title: "Corte"}
	for range 3 {
		require.NoError(t, store.Save(ctx, result))
	}

	items, err := store.Get(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].ClickCount)
}
