// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/constants"
)

// RedisAttemptTracker implements [AttemptTracker] with one expiring counter per email,
// so every API replica shares the same lockout state.
type RedisAttemptTracker struct {
	client redis.UniversalClient
	window time.Duration
}

// NewRedisAttemptTracker creates a Redis-backed tracker.
func NewRedisAttemptTracker(client redis.UniversalClient, window time.Duration) *RedisAttemptTracker {
	return &RedisAttemptTracker{client: client, window: window}
}

func attemptKey(email string) string {
	return constants.RedisPrefixLoginFailures + strings.ToLower(email)
}

/*
Failures returns the current failure count.

Returns:
  - int: 0 when the key is absent or expired
*/
func (tracker *RedisAttemptTracker) Failures(context context.Context, email string) (int, error) {
	count, err := tracker.client.Get(context, attemptKey(email)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis_login_failures_get_failed: %w", err)
	}
	return count, nil
}

// RecordFailure increments the counter and refreshes its TTL in one round trip.
func (tracker *RedisAttemptTracker) RecordFailure(context context.Context, email string) error {
	key := attemptKey(email)

	_, err := tracker.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Incr(context, key)
		pipe.Expire(context, key, tracker.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_login_failures_incr_failed: %w", err)
	}
	return nil
}

// Reset deletes the counter.
func (tracker *RedisAttemptTracker) Reset(context context.Context, email string) error {
	if err := tracker.client.Del(context, attemptKey(email)).Err(); err != nil {
		return fmt.Errorf("redis_login_failures_del_failed: %w", err)
	}
	return nil
}
