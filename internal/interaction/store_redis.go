// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package interaction

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/constants"
)

// toggleScript flips one watchlist member atomically.
// KEYS[1] watchlist zset, ARGV[1] item id, ARGV[2] save time in microseconds.
// Returns 1 when added, 0 when removed.
var toggleScript = redis.NewScript(`
if redis.call('ZSCORE', KEYS[1], ARGV[1]) then
	redis.call('ZREM', KEYS[1], ARGV[1])
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[1])
return 1
`)

// # Redis Implementation

// RedisStore implements [Store] on Redis.
//
// History and watchlist are sorted sets scored by timestamp in microseconds;
// ratings live in one hash per user.
type RedisStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisStore creates a store on the shared client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func redisKey(prefix string, userID int64) string {
	return prefix + strconv.FormatInt(userID, 10)
}

func member(itemID int64) string {
	return strconv.FormatInt(itemID, 10)
}

// # Seen

func (store *RedisStore) MarkSeen(context context.Context, userID, itemID int64) error {
	err := store.client.ZAddNX(context, redisKey(constants.RedisPrefixSeen, userID), redis.Z{
		Score:  float64(store.now().UnixMicro()),
		Member: member(itemID),
	}).Err()
	if err != nil {
		return fmt.Errorf("redis_mark_seen_failed: %w", err)
	}
	return nil
}

func (store *RedisStore) SeenItems(context context.Context, userID int64) ([]Entry, error) {
	return store.listMembers(context, redisKey(constants.RedisPrefixSeen, userID))
}

func (store *RedisStore) RemoveSeen(context context.Context, userID, itemID int64) error {
	if err := store.client.ZRem(context, redisKey(constants.RedisPrefixSeen, userID), member(itemID)).Err(); err != nil {
		return fmt.Errorf("redis_remove_seen_failed: %w", err)
	}
	return nil
}

// # Saved

func (store *RedisStore) ToggleSaved(context context.Context, userID, itemID int64) (ToggleResult, error) {
	added, err := toggleScript.Run(context, store.client,
		[]string{redisKey(constants.RedisPrefixSaved, userID)},
		member(itemID), store.now().UnixMicro(),
	).Int()
	if err != nil {
		return "", fmt.Errorf("redis_toggle_saved_failed: %w", err)
	}

	if added == 1 {
		return Added, nil
	}
	return Removed, nil
}

func (store *RedisStore) SavedItems(context context.Context, userID int64) ([]Entry, error) {
	return store.listMembers(context, redisKey(constants.RedisPrefixSaved, userID))
}

// # Ratings

func (store *RedisStore) Rate(context context.Context, userID, itemID int64, rating int) error {
	if err := checkRating(rating); err != nil {
		return err
	}

	if err := store.client.HSet(context, redisKey(constants.RedisPrefixRating, userID), member(itemID), rating).Err(); err != nil {
		return fmt.Errorf("redis_rate_failed: %w", err)
	}
	return nil
}

func (store *RedisStore) RatingOf(context context.Context, userID, itemID int64) (int, bool, error) {
	rating, err := store.client.HGet(context, redisKey(constants.RedisPrefixRating, userID), member(itemID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis_rating_of_failed: %w", err)
	}
	return rating, true, nil
}

// # Helpers

func (store *RedisStore) listMembers(context context.Context, key string) ([]Entry, error) {
	members, err := store.client.ZRangeWithScores(context, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_list_failed: %w", err)
	}

	entries := make([]Entry, 0, len(members))
	for _, z := range members {
		raw, _ := z.Member.(string)
		itemID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("redis_corrupt_member %q in %s: %w", raw, key, err)
		}
		entries = append(entries, Entry{
			ItemID: itemID,
			At:     time.UnixMicro(int64(z.Score)).UTC(),
		})
	}

	sortRecentFirst(entries)
	return entries, nil
}
