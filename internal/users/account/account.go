// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles sign-up, login and the caller's own profile.

Accounts carry the numeric user id that scopes every interaction and
recommendation route, so a token issued here is all a client needs to
record views and fetch a personalized list.

# Architecture

  - Entities: Account.
  - Repositories: AccountRepository (Postgres, memory), AttemptTracker (Redis, memory).
  - Security: bcrypt hashes via [sec.HashPassword]; HS256 access tokens via [sec.TokenService].
*/
package account

import (
	"context"
	"time"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/sec"
)

// # Domain Entities

// Account is a registered member.
type Account struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
}

// # Field Identifiers

const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// # Constraints

const (
	// MinPasswordLength rejects trivially short passwords.
	MinPasswordLength = 8

	// MaxPasswordLength stays under bcrypt's 72-byte input limit.
	MaxPasswordLength = 72

	// MaxNameLength bounds display names.
	MaxNameLength = 100

	// MaxFailedLogins is the number of failures allowed per email within LockoutWindow.
	MaxFailedLogins = 5

	// LockoutWindow is how long failures are remembered.
	LockoutWindow = 15 * time.Minute
)

// # Repository Contracts

// AccountRepository defines the persistence contract for accounts.
type AccountRepository interface {
	/*
		Create persists a new account and fills in its ID and CreatedAt.

		Returns:
		  - error: apperr.Conflict when the email (case-insensitive) is taken
	*/
	Create(context context.Context, account *Account) error

	/*
		FindByEmail looks an account up by email, ignoring case.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		FindByID loads one account.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByID(context context.Context, id int64) (*Account, error)
}

// AttemptTracker counts failed logins per email inside a sliding window.
type AttemptTracker interface {
	// Failures returns the failures recorded within the window.
	Failures(context context.Context, email string) (int, error)

	// RecordFailure adds one failure and (re)starts the window.
	RecordFailure(context context.Context, email string) error

	// Reset clears the counter after a successful login.
	Reset(context context.Context, email string) error
}
