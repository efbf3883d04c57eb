// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/apperr"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/ctxutil"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/sec"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/validate"
)

// # Contracts & Types

// TokenIssuer signs access tokens for authenticated accounts.
type TokenIssuer interface {
	GenerateAccessToken(userID int64, name string, role sec.UserRole, timeToLive time.Duration) (string, error)
}

// errInvalidCredentials is shared by unknown emails and wrong passwords.
var errInvalidCredentials = apperr.Unauthorized("Invalid email or password")

// Service implements sign-up and login.
type Service struct {
	accounts AccountRepository
	attempts AttemptTracker
	tokens   TokenIssuer
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewService constructs a new [Service].
func NewService(
	accounts AccountRepository,
	attempts AttemptTracker,
	tokens TokenIssuer,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts: accounts,
		attempts: attempts,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// # Registration Flow

// SignupInput holds the data required to enroll a new member.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

/*
Signup validates, hashes and persists a new member account.

Returns:
  - *Account: Created entity
  - error: ValidationError, Conflict (email taken) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*Account, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxLen(FieldPassword, input.Password, MaxPasswordLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("account_service_hash_failed: %w", err))
	}

	account := &Account{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleMember,
	}
	if err := service.accounts.Create(context, account); err != nil {
		return nil, err
	}

	service.logger.Info("account_created",
		slog.Int64("user_id", account.ID),
		slog.String("request_id", ctxutil.GetRequestID(context)),
	)
	return account, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// Session is the transport-ready result of a successful login.
type Session struct {
	UserID      int64  `json:"user_id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

/*
Login verifies credentials and issues an access token.

Description: Unknown emails and wrong passwords share one message so the
endpoint cannot be used to enumerate accounts. Repeated failures for one
email within [LockoutWindow] are answered with RateLimited until the window
lapses.

Returns:
  - *Session: user id, display name and signed token
  - error: Unauthorized, RateLimited or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	email := strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if service.lockedOut(context, email) {
		return nil, apperr.RateLimited(int(LockoutWindow.Seconds()))
	}

	account, err := service.accounts.FindByEmail(context, email)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusNotFound {
			service.recordFailure(context, email)
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		service.recordFailure(context, email)
		return nil, errInvalidCredentials
	}

	token, err := service.tokens.GenerateAccessToken(account.ID, account.Name, account.Role, service.tokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("account_service_token_failed: %w", err))
	}

	if err := service.attempts.Reset(context, email); err != nil {
		service.logger.Warn("login_attempts_reset_failed", slog.Any("error", err))
	}

	return &Session{UserID: account.ID, Name: account.Name, AccessToken: token}, nil
}

// Me returns the caller's own account.
func (service *Service) Me(context context.Context, userID int64) (*Account, error) {
	return service.accounts.FindByID(context, userID)
}

// # Lockout Helpers

// lockedOut fails open: a tracker outage must not block every login.
func (service *Service) lockedOut(context context.Context, email string) bool {
	failures, err := service.attempts.Failures(context, email)
	if err != nil {
		service.logger.Warn("login_attempts_read_failed", slog.Any("error", err))
		return false
	}
	return failures >= MaxFailedLogins
}

func (service *Service) recordFailure(context context.Context, email string) {
	if err := service.attempts.RecordFailure(context, email); err != nil {
		service.logger.Warn("login_attempts_record_failed", slog.Any("error", err))
	}
}
