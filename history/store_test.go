package history

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/poiesic/shopsearch/core"
	"github.com/poiesic/shopsearch/storage"
	"github.com/poiesic/shopsearch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingRepository fails every operation.
type failingRepository struct {
	err error
}

var _ storage.HistoryRepository = (*failingRepository)(nil)

func (f *failingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return f.err
}
func (f *failingRepository) Close() error { return nil }
func (f *failingRepository) LoadHistory(context.Context) ([]core.HistoryItem, error) {
	return nil, f.err
}
func (f *failingRepository) UpdateHistory(context.Context, storage.HistoryUpdater) error {
	return f.err
}
func (f *failingRepository) ClearHistory(context.Context) error { return f.err }

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *testClock) {
	t.Helper()
	repo, backend, err := badger.NewMemoryHistoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	clock := &testClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	store, err := NewStore(repo, append([]Option{WithClock(clock.Now)}, opts...)...)
	require.NoError(t, err)
	return store, clock
}

func result(id string, typ core.ResultType) core.SearchResult {
	return core.SearchResult{Id: id, Type: typ, Title: "Result " + id, Href: "/" + id}
}

func historyIDs(items []core.HistoryItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.Id
	}
	return ids
}

func TestNewStore(t *testing.T) {
	t.Run("nil repository", func(t *testing.T) {
		_, err := NewStore(nil)
		assert.Equal(t, ErrRepositoryRequired, err)
	})

	t.Run("invalid capacity", func(t *testing.T) {
		_, err := NewStore(&failingRepository{}, WithCapacity(0))
		assert.Equal(t, ErrInvalidCapacity, err)
	})

	t.Run("defaults", func(t *testing.T) {
		store, err := NewStore(&failingRepository{}, WithLogger(nil))
		require.NoError(t, err)
		assert.Equal(t, DefaultCapacity, store.Capacity())
	})
}

func TestStore_EmptyOnFirstUse(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	items, err := store.Get(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Nil(t, stats.MostClicked)
	assert.NotNil(t, stats.ByType)
}

func TestStore_SaveNewestFirst(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, result("a", core.ResultTypePage)))
	require.NoError(t, store.Save(ctx, result("b", core.ResultTypeStaff)))

	items, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, historyIDs(items))
	assert.Equal(t, 1, items[0].ClickCount)
	assert.True(t, items[0].SearchedAt.After(items[1].SearchedAt))
}

func TestStore_Capacity(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for i := range 15 {
		require.NoError(t, store.Save(ctx, result(fmt.Sprintf("r%02d", i), core.ResultTypeService)))
	}

	items, err := store.Get(ctx)
	require.NoError(t, err)
	require.Len(t, items, 10)
	assert.Equal(t, "r14", items[0].Id)
	assert.Equal(t, "r05", items[9].Id)
	for i := 1; i < len(items); i++ {
		assert.True(t, items[i-1].SearchedAt.After(items[i].SearchedAt))
	}
}

func TestStore_CustomCapacity(t *testing.T) {
	store, _ := newTestStore(t, WithCapacity(2))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, result(id, core.ResultTypeUnit)))
	}

	items, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, historyIDs(items))
}

func TestStore_Dedup(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, result("a", core.ResultTypePage)))
	require.NoError(t, store.Save(ctx, result("b", core.ResultTypePage)))
	require.NoError(t, store.Save(ctx, result("a", core.ResultTypePage)))

	items, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, historyIDs(items))
	assert.Equal(t, 2, items[0].ClickCount)
	assert.Equal(t, clock.now, items[0].SearchedAt)
	assert.Equal(t, 1, items[1].ClickCount)
}

func TestStore_SaveKeepsExistingEntryData(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := result("a", core.ResultTypeStaff)
	first.Metadata = map[string]string{"role": "barber"}
	require.NoError(t, store.Save(ctx, first))

	first.Metadata["role"] = "manager"
	again := result("a", core.ResultTypeStaff)
	again.Title = "Renamed"
	require.NoError(t, store.Save(ctx, again))

	items, err := store.Get(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Result a", items[0].Title)
	assert.Equal(t, map[string]string{"role": "barber"}, items[0].Metadata)
}

func TestStore_SaveRejectsInvalidResult(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.Save(ctx, core.SearchResult{Id: "", Type: core.ResultTypePage, Title: "x"})
	assert.ErrorIs(t, err, core.ErrInvalidSearchResult)

	items, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_GetRecentAndByType(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, result("p1", core.ResultTypePage)))
	require.NoError(t, store.Save(ctx, result("s1", core.ResultTypeStaff)))
	require.NoError(t, store.Save(ctx, result("p2", core.ResultTypePage)))

	recent, err := store.GetRecent(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "s1"}, historyIDs(recent))

	all, err := store.GetRecent(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := store.GetRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	pages, err := store.GetByType(ctx, core.ResultTypePage)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, historyIDs(pages))

	units, err := store.GetByType(ctx, core.ResultTypeUnit)
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestStore_RemoveAndClear(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, result(id, core.ResultTypePage)))
	}

	require.NoError(t, store.Remove(ctx, "b"))
	require.NoError(t, store.Remove(ctx, "missing"))

	items, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, historyIDs(items))

	require.NoError(t, store.Clear(ctx))
	items, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_Stats(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// a: 2 clicks, b: 2 clicks (more recent), c: 1 click
	for _, id := range []string{"a", "a", "b", "b", "c"} {
		typ := core.ResultTypePage
		if id == "c" {
			typ = core.ResultTypeStaff
		}
		require.NoError(t, store.Save(ctx, result(id, typ)))
	}

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[core.ResultType]int{core.ResultTypePage: 2, core.ResultTypeStaff: 1}, stats.ByType)
	require.NotNil(t, stats.MostClicked)
	assert.Equal(t, "b", stats.MostClicked.Id)
	assert.Equal(t, 2, stats.MostClicked.ClickCount)
}

func TestStore_StorageFailuresDegrade(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	boom := errors.New("quota exceeded")
	store, err := NewStore(&failingRepository{err: boom}, WithLogger(logger))
	require.NoError(t, err)
	ctx := context.Background()

	items, err := store.Get(ctx)
	assert.ErrorIs(t, err, ErrReadFailed)
	assert.ErrorIs(t, err, boom)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	recent, err := store.GetRecent(ctx, 3)
	assert.ErrorIs(t, err, ErrReadFailed)
	assert.Empty(t, recent)

	byType, err := store.GetByType(ctx, core.ResultTypePage)
	assert.ErrorIs(t, err, ErrReadFailed)
	assert.Empty(t, byType)

	stats, err := store.Stats(ctx)
	assert.ErrorIs(t, err, ErrReadFailed)
	assert.Equal(t, 0, stats.Total)
	assert.Nil(t, stats.MostClicked)

	assert.ErrorIs(t, store.Save(ctx, result("a", core.ResultTypePage)), ErrWriteFailed)
	assert.ErrorIs(t, store.Remove(ctx, "a"), ErrWriteFailed)
	assert.ErrorIs(t, store.Clear(ctx), ErrWriteFailed)

	assert.Contains(t, buf.String(), "error reading search history")
	assert.Contains(t, buf.String(), "error writing search history")
}

func TestStore_ClosedStorage(t *testing.T) {
	repo, backend, err := badger.NewMemoryHistoryRepository()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	store, err := NewStore(repo)
	require.NoError(t, err)

	items, err := store.Get(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.Empty(t, items)
}
