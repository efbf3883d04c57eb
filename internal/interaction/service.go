// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package interaction

import (
	"context"
	"log/slog"

	"github.com/MORAX777/Movies-Recommendation-System/internal/catalog"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/apperr"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/constants"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/ctxutil"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/metrics"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/validate"
)

// # Service Layer

// Service exposes the interaction relations to HTTP handlers.
type Service struct {
	store     Store
	holder    *catalog.Holder
	publisher EventPublisher
	logger    *slog.Logger
}

// NewService constructs a new [Service]. publisher may be nil.
func NewService(store Store, holder *catalog.Holder, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{store: store, holder: holder, publisher: publisher, logger: logger}
}

// Rating is the read model of GET /ratings/{itemID}.
type Rating struct {
	ItemID int64  `json:"item_id"`
	Title  string `json:"title"`
	Rating int    `json:"rating"`
}

// # History

/*
MarkSeen records a view.

Description: Idempotent. Items need not exist in the current catalog.
*/
func (service *Service) MarkSeen(context context.Context, userID, itemID int64) error {
	if err := checkIDs(userID, itemID); err != nil {
		return err
	}

	err := service.store.MarkSeen(context, userID, itemID)
	metrics.RecordInteraction("mark_seen", err)
	if err != nil {
		return storeError(err)
	}

	service.publish(context, NewEvent(EventSeen, userID, itemID))
	return nil
}

// History lists the user's viewed items with titles, most recent first.
func (service *Service) History(context context.Context, userID int64) ([]Entry, error) {
	if err := (&validate.Validator{}).PositiveID("user_id", userID).Err(); err != nil {
		return nil, err
	}

	entries, err := service.store.SeenItems(context, userID)
	metrics.RecordInteraction("seen_items", err)
	if err != nil {
		return nil, storeError(err)
	}
	return service.withTitles(entries), nil
}

// RemoveSeen deletes one history entry.
func (service *Service) RemoveSeen(context context.Context, userID, itemID int64) error {
	if err := checkIDs(userID, itemID); err != nil {
		return err
	}

	err := service.store.RemoveSeen(context, userID, itemID)
	metrics.RecordInteraction("remove_seen", err)
	if err != nil {
		return storeError(err)
	}

	service.publish(context, NewEvent(EventUnseen, userID, itemID))
	return nil
}

// # Watchlist

/*
ToggleSaved adds or removes an item from the watchlist.

Returns:
  - ToggleResult: Added when the item was absent, Removed otherwise
  - error: VALIDATION_ERROR for non-positive ids, INTERNAL_ERROR on storage failure
*/
func (service *Service) ToggleSaved(context context.Context, userID, itemID int64) (ToggleResult, error) {
	if err := checkIDs(userID, itemID); err != nil {
		return "", err
	}

	result, err := service.store.ToggleSaved(context, userID, itemID)
	metrics.RecordInteraction("toggle_saved", err)
	if err != nil {
		return "", storeError(err)
	}

	kind := EventSaved
	if result == Removed {
		kind = EventUnsaved
	}
	service.publish(context, NewEvent(kind, userID, itemID))
	return result, nil
}

// Watchlist lists the user's saved items with titles, most recently saved first.
func (service *Service) Watchlist(context context.Context, userID int64) ([]Entry, error) {
	if err := (&validate.Validator{}).PositiveID("user_id", userID).Err(); err != nil {
		return nil, err
	}

	entries, err := service.store.SavedItems(context, userID)
	metrics.RecordInteraction("saved_items", err)
	if err != nil {
		return nil, storeError(err)
	}
	return service.withTitles(entries), nil
}

// # Ratings

// Rate stores the user's rating; the last write wins.
func (service *Service) Rate(context context.Context, userID, itemID int64, rating int) error {
	if err := (&validate.Validator{}).
		PositiveID("user_id", userID).
		PositiveID("item_id", itemID).
		Range("rating", rating, constants.MinRating, constants.MaxRating).
		Err(); err != nil {
		return err
	}

	err := service.store.Rate(context, userID, itemID, rating)
	metrics.RecordInteraction("rate", err)
	if err != nil {
		return storeError(err)
	}

	event := NewEvent(EventRated, userID, itemID)
	event.Rating = rating
	service.publish(context, event)
	return nil
}

/*
RatingOf returns the user's rating for one item.

Returns:
  - Rating: The rating with a resolved title
  - error: NOT_FOUND when the user never rated the item
*/
func (service *Service) RatingOf(context context.Context, userID, itemID int64) (Rating, error) {
	if err := checkIDs(userID, itemID); err != nil {
		return Rating{}, err
	}

	rating, ok, err := service.store.RatingOf(context, userID, itemID)
	metrics.RecordInteraction("rating_of", err)
	if err != nil {
		return Rating{}, storeError(err)
	}
	if !ok {
		return Rating{}, apperr.NotFound("Rating")
	}

	return Rating{ItemID: itemID, Title: service.titleOf(itemID), Rating: rating}, nil
}

// # Helpers

func checkIDs(userID, itemID int64) error {
	return (&validate.Validator{}).
		PositiveID("user_id", userID).
		PositiveID("item_id", itemID).
		Err()
}

// storeError keeps client errors raised by a store and hides everything else.
func storeError(err error) error {
	if apperr.IsAppError(err) {
		return err
	}
	return apperr.Internal(err)
}

func (service *Service) titleOf(itemID int64) string {
	if item, ok := service.holder.Current().Get(itemID); ok {
		return item.Title
	}
	return constants.UnknownTitle
}

// withTitles resolves every entry against one catalog snapshot.
func (service *Service) withTitles(entries []Entry) []Entry {
	index := service.holder.Current()
	for i := range entries {
		if item, ok := index.Get(entries[i].ItemID); ok {
			entries[i].Title = item.Title
		} else {
			entries[i].Title = constants.UnknownTitle
		}
	}
	return entries
}

// publish is fire-and-forget: a failed event never fails the write it describes.
func (service *Service) publish(context context.Context, event Event) {
	if service.publisher == nil {
		return
	}

	err := service.publisher.Publish(context, event)
	metrics.RecordEventPublish(string(event.Kind), err)
	if err != nil {
		service.logger.Warn("interaction_event_publish_failed",
			slog.String("request_id", ctxutil.GetRequestID(context)),
			slog.String("kind", string(event.Kind)),
			slog.String("event_id", event.ID),
			slog.Any("error", err),
		)
	}
}
