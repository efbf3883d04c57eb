// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/apperr"
)

// MemoryAccountRepository keeps accounts in process memory. Development and tests only.
type MemoryAccountRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]Account
	byEmail map[string]int64
}

// NewMemoryAccountRepository creates an empty repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byID:    make(map[int64]Account),
		byEmail: make(map[string]int64),
	}
}

func (repository *MemoryAccountRepository) Create(_ context.Context, account *Account) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	key := strings.ToLower(account.Email)
	if _, taken := repository.byEmail[key]; taken {
		return apperr.Conflict("Email already exists")
	}

	repository.nextID++
	account.ID = repository.nextID
	account.CreatedAt = time.Now().UTC()

	repository.byID[account.ID] = *account
	repository.byEmail[key] = account.ID
	return nil
}

func (repository *MemoryAccountRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	id, ok := repository.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	account := repository.byID[id]
	return &account, nil
}

func (repository *MemoryAccountRepository) FindByID(_ context.Context, id int64) (*Account, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	account, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	return &account, nil
}

// # Attempt Tracking

type attemptWindow struct {
	count     int
	expiresAt time.Time
}

// MemoryAttemptTracker counts failed logins in process memory.
type MemoryAttemptTracker struct {
	mu       sync.Mutex
	attempts map[string]attemptWindow
	window   time.Duration
	now      func() time.Time
}

// NewMemoryAttemptTracker creates a tracker forgetting failures after window.
func NewMemoryAttemptTracker(window time.Duration) *MemoryAttemptTracker {
	return &MemoryAttemptTracker{
		attempts: make(map[string]attemptWindow),
		window:   window,
		now:      time.Now,
	}
}

func (tracker *MemoryAttemptTracker) Failures(_ context.Context, email string) (int, error) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	entry, ok := tracker.attempts[strings.ToLower(email)]
	if !ok || tracker.now().After(entry.expiresAt) {
		return 0, nil
	}
	return entry.count, nil
}

func (tracker *MemoryAttemptTracker) RecordFailure(_ context.Context, email string) error {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	key := strings.ToLower(email)
	now := tracker.now()
	entry := tracker.attempts[key]
	if now.After(entry.expiresAt) {
		entry.count = 0
	}
	entry.count++
	entry.expiresAt = now.Add(tracker.window)
	tracker.attempts[key] = entry
	return nil
}

func (tracker *MemoryAttemptTracker) Reset(_ context.Context, email string) error {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	delete(tracker.attempts, strings.ToLower(email))
	return nil
}
