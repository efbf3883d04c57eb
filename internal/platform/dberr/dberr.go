// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes that map to client errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// Wrap classifies a database error into an [apperr.AppError].
//
// resource names the entity in NotFound and Conflict messages ("Movie", "Account").
// Anything unrecognised becomes an Internal error carrying the action for logs.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case uniqueViolation:
			return apperr.Conflict(resource + " already exists")
		case foreignKeyViolation:
			return apperr.NotFound(resource)
		case checkViolation:
			return apperr.InvalidArgument(pgError.ColumnName, pgError.Message)
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
