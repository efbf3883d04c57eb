// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package interaction

import (
	"context"
	"sync"
	"time"
)

// # In-Memory Store

// MemoryStore keeps every relation in process memory. Development and tests only.
type MemoryStore struct {
	mu      sync.RWMutex
	seen    map[int64]map[int64]time.Time
	saved   map[int64]map[int64]time.Time
	ratings map[int64]map[int64]int
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seen:    make(map[int64]map[int64]time.Time),
		saved:   make(map[int64]map[int64]time.Time),
		ratings: make(map[int64]map[int64]int),
		now:     time.Now,
	}
}

func (store *MemoryStore) MarkSeen(_ context.Context, userID, itemID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	history := nested(store.seen, userID)
	if _, exists := history[itemID]; !exists {
		history[itemID] = store.now().UTC()
	}
	return nil
}

func (store *MemoryStore) SeenItems(_ context.Context, userID int64) ([]Entry, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return entriesOf(store.seen[userID]), nil
}

func (store *MemoryStore) RemoveSeen(_ context.Context, userID, itemID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.seen[userID], itemID)
	return nil
}

func (store *MemoryStore) ToggleSaved(_ context.Context, userID, itemID int64) (ToggleResult, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	watchlist := nested(store.saved, userID)
	if _, exists := watchlist[itemID]; exists {
		delete(watchlist, itemID)
		return Removed, nil
	}
	watchlist[itemID] = store.now().UTC()
	return Added, nil
}

func (store *MemoryStore) SavedItems(_ context.Context, userID int64) ([]Entry, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return entriesOf(store.saved[userID]), nil
}

func (store *MemoryStore) Rate(_ context.Context, userID, itemID int64, rating int) error {
	if err := checkRating(rating); err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	nested(store.ratings, userID)[itemID] = rating
	return nil
}

func (store *MemoryStore) RatingOf(_ context.Context, userID, itemID int64) (int, bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	rating, ok := store.ratings[userID][itemID]
	return rating, ok, nil
}

// nested returns the per-user map, creating it on first write.
func nested[V any](outer map[int64]map[int64]V, userID int64) map[int64]V {
	inner, ok := outer[userID]
	if !ok {
		inner = make(map[int64]V)
		outer[userID] = inner
	}
	return inner
}

func entriesOf(items map[int64]time.Time) []Entry {
	entries := make([]Entry, 0, len(items))
	for itemID, at := range items {
		entries = append(entries, Entry{ItemID: itemID, At: at})
	}
	sortRecentFirst(entries)
	return entries
}
