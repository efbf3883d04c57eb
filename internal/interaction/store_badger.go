// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package interaction

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key layout: "<relation>:<userID>:<itemID>".
const (
	badgerPrefixSeen   = "seen:"
	badgerPrefixSaved  = "saved:"
	badgerPrefixRating = "rating:"

	// badgerMaxAttempts bounds retries of optimistic transactions on write conflicts.
	badgerMaxAttempts = 64
)

type badgerMark struct {
	At time.Time `json:"at"`
}

type badgerRating struct {
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Badger Implementation

// BadgerStore implements [Store] on an embedded BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerStore creates a store on an already opened database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, now: time.Now}
}

func badgerKey(prefix string, userID, itemID int64) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", prefix, userID, itemID))
}

func badgerUserPrefix(prefix string, userID int64) []byte {
	return []byte(fmt.Sprintf("%s%d:", prefix, userID))
}

// update runs fn in a read-write transaction, retrying when a concurrent
// writer committed first.
func (store *BadgerStore) update(context context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for range badgerMaxAttempts {
		if ctxErr := context.Err(); ctxErr != nil {
			return ctxErr
		}
		err = store.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// # Seen

func (store *BadgerStore) MarkSeen(context context.Context, userID, itemID int64) error {
	key := badgerKey(badgerPrefixSeen, userID, itemID)

	err := store.update(context, func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(badgerMark{At: store.now().UTC()})
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("badger_mark_seen_failed: %w", err)
	}
	return nil
}

func (store *BadgerStore) SeenItems(context context.Context, userID int64) ([]Entry, error) {
	return store.listMarks(context, badgerPrefixSeen, userID)
}

func (store *BadgerStore) RemoveSeen(context context.Context, userID, itemID int64) error {
	key := badgerKey(badgerPrefixSeen, userID, itemID)

	err := store.update(context, func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("badger_remove_seen_failed: %w", err)
	}
	return nil
}

// # Saved

func (store *BadgerStore) ToggleSaved(context context.Context, userID, itemID int64) (ToggleResult, error) {
	key := badgerKey(badgerPrefixSaved, userID, itemID)

	var result ToggleResult
	err := store.update(context, func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == nil:
			result = Removed
			return txn.Delete(key)
		case errors.Is(err, badger.ErrKeyNotFound):
			data, err := json.Marshal(badgerMark{At: store.now().UTC()})
			if err != nil {
				return err
			}
			result = Added
			return txn.Set(key, data)
		default:
			return err
		}
	})
	if err != nil {
		return "", fmt.Errorf("badger_toggle_saved_failed: %w", err)
	}
	return result, nil
}

func (store *BadgerStore) SavedItems(context context.Context, userID int64) ([]Entry, error) {
	return store.listMarks(context, badgerPrefixSaved, userID)
}

// # Ratings

func (store *BadgerStore) Rate(context context.Context, userID, itemID int64, rating int) error {
	if err := checkRating(rating); err != nil {
		return err
	}

	data, err := json.Marshal(badgerRating{Score: rating, UpdatedAt: store.now().UTC()})
	if err != nil {
		return fmt.Errorf("badger_marshal_rating_failed: %w", err)
	}

	key := badgerKey(badgerPrefixRating, userID, itemID)
	err = store.update(context, func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("badger_rate_failed: %w", err)
	}
	return nil
}

func (store *BadgerStore) RatingOf(_ context.Context, userID, itemID int64) (int, bool, error) {
	var stored badgerRating
	found := false

	err := store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(badgerPrefixRating, userID, itemID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		return 0, false, fmt.Errorf("badger_rating_of_failed: %w", err)
	}
	return stored.Score, found, nil
}

// # Helpers

func (store *BadgerStore) listMarks(_ context.Context, relation string, userID int64) ([]Entry, error) {
	prefix := badgerUserPrefix(relation, userID)
	entries := make([]Entry, 0)

	err := store.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		iterator := txn.NewIterator(options)
		defer iterator.Close()

		for iterator.Seek(prefix); iterator.ValidForPrefix(prefix); iterator.Next() {
			item := iterator.Item()

			itemID, err := strconv.ParseInt(strings.TrimPrefix(string(item.Key()), string(prefix)), 10, 64)
			if err != nil {
				return fmt.Errorf("corrupt key %q: %w", item.Key(), err)
			}

			var mark badgerMark
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &mark)
			}); err != nil {
				return err
			}
			entries = append(entries, Entry{ItemID: itemID, At: mark.At})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger_list_%s_failed: %w", strings.TrimSuffix(relation, ":"), err)
	}

	sortRecentFirst(entries)
	return entries, nil
}
