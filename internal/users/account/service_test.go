// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/apperr"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/constants"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/sec"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*Service, *sec.TokenService, *MemoryAttemptTracker) {
	t.Helper()

	tokens, err := sec.NewTokenService("account-test", "movies-test")
	require.NoError(t, err)

	tracker := NewMemoryAttemptTracker(LockoutWindow)
	service := NewService(NewMemoryAccountRepository(), tracker, tokens, time.Minute, discardLogger())
	return service, tokens, tracker
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an AppError, got %v", err)
	return appError.HTTPStatus
}

/*
TestSignupAndLogin issues a token whose claims identify the new account.
*/
func TestSignupAndLogin(t *testing.T) {
	service, tokens, _ := newTestService(t)
	ctx := context.Background()

	account, err := service.Signup(ctx, SignupInput{Name: " Ada ", Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), account.ID)
	assert.Equal(t, "Ada", account.Name)
	assert.Equal(t, sec.RoleMember, account.Role)
	assert.NotEqual(t, "correct-horse", account.PasswordHash)

	session, err := service.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, account.ID, session.UserID)
	assert.Equal(t, "Ada", session.Name)

	claims, err := tokens.VerifyToken(session.AccessToken)
	require.NoError(t, err)
	userID, err := claims.NumericUserID()
	require.NoError(t, err)
	assert.Equal(t, account.ID, userID)
	assert.Equal(t, string(sec.RoleMember), claims.Role)

	me, err := service.Me(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)
}

/*
TestSignupRejects covers validation and duplicate emails.
*/
func TestSignupRejects(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Signup(ctx, SignupInput{Name: "", Email: "not-an-email", Password: "short"})
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
	assert.Len(t, appError.Details, 3)

	_, err = service.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = service.Signup(ctx, SignupInput{Name: "Other", Email: "Ada@Example.com", Password: "another-pass"})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

/*
TestLoginFailuresAreIndistinguishable returns the same error for unknown
emails and wrong passwords.
*/
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, unknown := service.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "correct-horse"})
	_, wrong := service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong-horse"})

	assert.Equal(t, http.StatusUnauthorized, statusOf(t, unknown))
	assert.Equal(t, unknown.Error(), wrong.Error())

	_, err = service.Login(ctx, LoginInput{Email: "", Password: ""})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

/*
TestLoginLockout blocks an email after repeated failures until the window lapses.
*/
func TestLoginLockout(t *testing.T) {
	service, _, tracker := newTestService(t)
	ctx := context.Background()

	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return current }

	_, err := service.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	for range MaxFailedLogins {
		_, err = service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong-horse"})
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	}

	_, err = service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "correct-horse"})
	assert.Equal(t, http.StatusTooManyRequests, statusOf(t, err))

	current = current.Add(LockoutWindow + time.Second)
	_, err = service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	failures, err := tracker.Failures(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Zero(t, failures)
}

type brokenTracker struct{}

func (brokenTracker) Failures(context.Context, string) (int, error) {
	return 0, errors.New("tracker down")
}
func (brokenTracker) RecordFailure(context.Context, string) error { return errors.New("tracker down") }
func (brokenTracker) Reset(context.Context, string) error         { return errors.New("tracker down") }

/*
TestLoginTrackerOutage still authenticates when the tracker is unavailable.
*/
func TestLoginTrackerOutage(t *testing.T) {
	tokens, err := sec.NewTokenService("account-test", "movies-test")
	require.NoError(t, err)
	service := NewService(NewMemoryAccountRepository(), brokenTracker{}, tokens, time.Minute, discardLogger())
	ctx := context.Background()

	_, err = service.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "correct-horse"})
	assert.NoError(t, err)
}

/*
TestMeUnknown returns NotFound for an id with no account.
*/
func TestMeUnknown(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Me(context.Background(), 99)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestAttemptKey(t *testing.T) {
	assert.Equal(t, constants.RedisPrefixLoginFailures+"ada@example.com", attemptKey("Ada@Example.COM"))
}
