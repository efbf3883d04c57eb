// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package interaction records what each user has seen, saved and rated.

# Architecture

  - Store: Persistence contract with four backends (memory, postgres, badger, redis).
  - Service: Validation, title resolution and event publishing around a Store.
  - Handler: The /users/{userID} HTTP surface.

Stores hold no business logic beyond the relation rules: seen is a fact
keeping its first view time, saved is a toggled set, a rating is the last
value written. Every write is atomic per (user, item) pair.
*/
package interaction

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/apperr"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/constants"
)

// # Domain Entities

// Entry is one item in a user's history or watchlist.
//
// At is the first-view time for history and the save time for the watchlist.
// Title is resolved by [Service] against the current catalog; stores leave it empty.
type Entry struct {
	ItemID int64     `json:"item_id"`
	Title  string    `json:"title,omitempty"`
	At     time.Time `json:"at"`
}

// ToggleResult reports what a watchlist toggle did.
type ToggleResult string

const (
	Added   ToggleResult = "Added"
	Removed ToggleResult = "Removed"
)

// # Repository Contracts

// Store defines the persistence contract for interaction relations.
type Store interface {
	/*
		MarkSeen records that the user viewed the item.

		Description: Idempotent. A repeat view keeps the original timestamp.
	*/
	MarkSeen(context context.Context, userID, itemID int64) error

	/*
		SeenItems lists the user's history, most recent first, one entry per item.
	*/
	SeenItems(context context.Context, userID int64) ([]Entry, error)

	/*
		RemoveSeen deletes one history entry. Removing an absent entry is not an error.
	*/
	RemoveSeen(context context.Context, userID, itemID int64) error

	/*
		ToggleSaved adds the item to the watchlist if absent, removes it otherwise.

		Returns:
		  - ToggleResult: Added or Removed
		  - error: Storage failures
	*/
	ToggleSaved(context context.Context, userID, itemID int64) (ToggleResult, error)

	/*
		SavedItems lists the user's watchlist, most recently saved first.
	*/
	SavedItems(context context.Context, userID int64) ([]Entry, error)

	/*
		Rate sets the user's rating for an item; the last write wins.

		Returns:
		  - error: apperr VALIDATION_ERROR when rating is outside [1, 5]
	*/
	Rate(context context.Context, userID, itemID int64, rating int) error

	/*
		RatingOf returns the user's rating for an item.

		Returns:
		  - rating: The stored value, 0 when unrated
		  - ok: false when the user never rated the item
	*/
	RatingOf(context context.Context, userID, itemID int64) (rating int, ok bool, err error)
}

// # Shared Rules

// checkRating enforces the rating range for every backend.
func checkRating(rating int) error {
	if rating < constants.MinRating || rating > constants.MaxRating {
		return apperr.InvalidArgument("rating", "Must be between 1 and 5")
	}
	return nil
}

// sortRecentFirst orders entries by time descending, then item id descending,
// so equal timestamps still produce a stable order on every backend.
func sortRecentFirst(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		if byTime := b.At.Compare(a.At); byTime != 0 {
			return byTime
		}
		return cmp.Compare(b.ItemID, a.ItemID)
	})
}
