// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package interaction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/apperr"
	badgerdb "github.com/MORAX777/Movies-Recommendation-System/internal/platform/badger"
)

// fakeClock hands out strictly increasing timestamps.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(time.Second)
	return clock.now
}

// backends lists every store the contract runs against without external services.
func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			store := NewMemoryStore()
			store.now = newFakeClock().Now
			return store
		},
		"badger": func(t *testing.T) Store {
			db, err := badgerdb.OpenInMemory()
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })

			store := NewBadgerStore(db)
			store.now = newFakeClock().Now
			return store
		},
	}
}

func itemIDs(entries []Entry) []int64 {
	result := make([]int64, len(entries))
	for i, entry := range entries {
		result[i] = entry.ItemID
	}
	return result
}

/*
TestStoreContract runs the relation rules against every embedded backend.
*/
func TestStoreContract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("seen_is_deduplicated_and_keeps_first_view", func(t *testing.T) {
				store := open(t)
				ctx := context.Background()

				require.NoError(t, store.MarkSeen(ctx, 1, 10))
				first, err := store.SeenItems(ctx, 1)
				require.NoError(t, err)
				require.Len(t, first, 1)

				require.NoError(t, store.MarkSeen(ctx, 1, 10))
				again, err := store.SeenItems(ctx, 1)
				require.NoError(t, err)
				require.Len(t, again, 1)
				assert.True(t, first[0].At.Equal(again[0].At))
			})

			t.Run("seen_lists_most_recent_first", func(t *testing.T) {
				store := open(t)
				ctx := context.Background()

				for _, item := range []int64{10, 20, 30} {
					require.NoError(t, store.MarkSeen(ctx, 1, item))
				}
				require.NoError(t, store.MarkSeen(ctx, 1, 10))

				entries, err := store.SeenItems(ctx, 1)
				require.NoError(t, err)
				assert.Equal(t, []int64{30, 20, 10}, itemIDs(entries))
			})

			t.Run("remove_seen", func(t *testing.T) {
				store := open(t)
				ctx := context.Background()

				require.NoError(t, store.MarkSeen(ctx, 1, 10))
				require.NoError(t, store.RemoveSeen(ctx, 1, 10))
				require.NoError(t, store.RemoveSeen(ctx, 1, 99))

				entries, err := store.SeenItems(ctx, 1)
				require.NoError(t, err)
				assert.Empty(t, entries)
			})

			t.Run("users_are_isolated", func(t *testing.T) {
				store := open(t)
				ctx := context.Background()

				require.NoError(t, store.MarkSeen(ctx, 1, 10))
				require.NoError(t, store.MarkSeen(ctx, 11, 20))

				entries, err := store.SeenItems(ctx, 1)
				require.NoError(t, err)
				assert.Equal(t, []int64{10}, itemIDs(entries))

				_, ok, err := store.RatingOf(ctx, 11, 10)
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("toggle_saved_is_xor", func(t *testing.T) {
				store := open(t)
				ctx := context.Background()

				result, err := store.ToggleSaved(ctx, 1, 10)
				require.NoError(t, err)
				assert.Equal(t, Added, result)

				result, err = store.ToggleSaved(ctx, 1, 20)
				require.NoError(t, err)
				assert.Equal(t, Added, result)

				saved, err := store.SavedItems(ctx, 1)
				require.NoError(t, err)
				assert.Equal(t, []int64{20, 10}, itemIDs(saved))

				result, err = store.ToggleSaved(ctx, 1, 10)
				require.NoError(t, err)
				assert.Equal(t, Removed, result)

				saved, err = store.SavedItems(ctx, 1)
				require.NoError(t, err)
				assert.Equal(t, []int64{20}, itemIDs(saved))
			})

			t.Run("concurrent_toggles_pair_up", func(t *testing.T) {
				store := open(t)
				ctx := context.Background()

				const toggles = 20
				results := make(chan ToggleResult, toggles)
				var wg sync.WaitGroup
				for range toggles {
					wg.Add(1)
					go func() {
						defer wg.Done()
						result, err := store.ToggleSaved(ctx, 1, 10)
						assert.NoError(t, err)
						results <- result
					}()
				}
				wg.Wait()
				close(results)

				counts := map[ToggleResult]int{}
				for result := range results {
					counts[result]++
				}
				assert.Equal(t, toggles/2, counts[Added])
				assert.Equal(t, toggles/2, counts[Removed])

				saved, err := store.SavedItems(ctx, 1)
				require.NoError(t, err)
				assert.Empty(t, saved)
			})

			t.Run("rating_last_write_wins", func(t *testing.T) {
				store := open(t)
				ctx := context.Background()

				_, ok, err := store.RatingOf(ctx, 1, 10)
				require.NoError(t, err)
				assert.False(t, ok)

				require.NoError(t, store.Rate(ctx, 1, 10, 2))
				require.NoError(t, store.Rate(ctx, 1, 10, 5))

				rating, ok, err := store.RatingOf(ctx, 1, 10)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, 5, rating)
			})

			t.Run("rating_out_of_range", func(t *testing.T) {
				store := open(t)
				ctx := context.Background()

				require.NoError(t, store.Rate(ctx, 1, 10, 3))

				for _, rating := range []int{0, 6, -1} {
					err := store.Rate(ctx, 1, 10, rating)
					require.Error(t, err)
					assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
				}

				rating, _, err := store.RatingOf(ctx, 1, 10)
				require.NoError(t, err)
				assert.Equal(t, 3, rating)
			})
		})
	}
}

/*
TestSortRecentFirst breaks timestamp ties by descending item id.
*/
func TestSortRecentFirst(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ItemID: 1, At: at},
		{ItemID: 3, At: at},
		{ItemID: 2, At: at.Add(time.Minute)},
	}

	sortRecentFirst(entries)
	assert.Equal(t, []int64{2, 3, 1}, itemIDs(entries))
}

/*
TestNewStore selects backends and refuses volatile storage in production.
*/
func TestNewStore(t *testing.T) {
	store, err := NewStore("memory", Deps{}, false)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	_, err = NewStore("memory", Deps{}, true)
	assert.Error(t, err)

	_, err = NewStore("postgres", Deps{}, false)
	assert.Error(t, err)

	_, err = NewStore("redis", Deps{}, false)
	assert.Error(t, err)

	_, err = NewStore("cassandra", Deps{}, false)
	assert.Error(t, err)

	db, err := badgerdb.OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	store, err = NewStore("badger", Deps{Badger: db}, true)
	require.NoError(t, err)
	assert.IsType(t, &BadgerStore{}, store)
}

/*
TestSelectEntries checks the generated history query.
*/
func TestSelectEntries(t *testing.T) {
	store := NewPostgresStore(nil)

	query, args, err := store.selectEntries(7, "library.viewhistory", "userid", "movieid", "viewedat")
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT movieid, viewedat FROM library.viewhistory WHERE userid = $1 ORDER BY viewedat DESC, movieid DESC",
		query)
	assert.Equal(t, []interface{}{int64(7)}, args)
}
