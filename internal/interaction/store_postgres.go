// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/database/schema"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/dberr"
)

// # PostgreSQL Implementation

// PostgresStore implements [Store] on the library and social schemas.
type PostgresStore struct {
	pool    *pgxpool.Pool
	builder sq.StatementBuilderType
}

// NewPostgresStore creates a store backed by the shared pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool:    pool,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// # Seen

func (repository *PostgresStore) MarkSeen(context context.Context, userID, itemID int64) error {
	table := schema.LibraryViewHistory
	query, args, err := repository.builder.
		Insert(table.Table).
		Columns(table.UserID, table.MovieID).
		Values(userID, itemID).
		Suffix(fmt.Sprintf("ON CONFLICT (%s, %s) DO NOTHING", table.UserID, table.MovieID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build_mark_seen_failed: %w", err)
	}

	if _, err := repository.pool.Exec(context, query, args...); err != nil {
		return dberr.Wrap(err, "History entry", "mark_seen")
	}
	return nil
}

func (repository *PostgresStore) SeenItems(context context.Context, userID int64) ([]Entry, error) {
	table := schema.LibraryViewHistory
	return repository.listEntries(context, userID, table.Table, table.UserID, table.MovieID, table.ViewedAt)
}

func (repository *PostgresStore) RemoveSeen(context context.Context, userID, itemID int64) error {
	table := schema.LibraryViewHistory
	query, args, err := repository.builder.
		Delete(table.Table).
		Where(sq.Eq{table.UserID: userID, table.MovieID: itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build_remove_seen_failed: %w", err)
	}

	if _, err := repository.pool.Exec(context, query, args...); err != nil {
		return dberr.Wrap(err, "History entry", "remove_seen")
	}
	return nil
}

// # Saved

/*
ToggleSaved flips watchlist membership inside one transaction.

Description: A transaction-scoped advisory lock keyed on (user, item)
serializes concurrent toggles of the same pair, so two simultaneous
requests always yield one Added and one Removed.
*/
func (repository *PostgresStore) ToggleSaved(context context.Context, userID, itemID int64) (ToggleResult, error) {
	table := schema.LibraryWatchlist

	tx, err := repository.pool.Begin(context)
	if err != nil {
		return "", dberr.Wrap(err, "Watchlist entry", "toggle_saved_begin")
	}
	defer func() { _ = tx.Rollback(context) }()

	if _, err := tx.Exec(context,
		"SELECT pg_advisory_xact_lock(hashtextextended(format('watchlist:%s:%s', $1::bigint, $2::bigint), 0))",
		userID, itemID,
	); err != nil {
		return "", dberr.Wrap(err, "Watchlist entry", "toggle_saved_lock")
	}

	deleteQuery, deleteArgs, err := repository.builder.
		Delete(table.Table).
		Where(sq.Eq{table.UserID: userID, table.MovieID: itemID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build_unsave_failed: %w", err)
	}

	tag, err := tx.Exec(context, deleteQuery, deleteArgs...)
	if err != nil {
		return "", dberr.Wrap(err, "Watchlist entry", "toggle_saved_delete")
	}

	result := Removed
	if tag.RowsAffected() == 0 {
		insertQuery, insertArgs, err := repository.builder.
			Insert(table.Table).
			Columns(table.UserID, table.MovieID).
			Values(userID, itemID).
			ToSql()
		if err != nil {
			return "", fmt.Errorf("build_save_failed: %w", err)
		}
		if _, err := tx.Exec(context, insertQuery, insertArgs...); err != nil {
			return "", dberr.Wrap(err, "Watchlist entry", "toggle_saved_insert")
		}
		result = Added
	}

	if err := tx.Commit(context); err != nil {
		return "", dberr.Wrap(err, "Watchlist entry", "toggle_saved_commit")
	}
	return result, nil
}

func (repository *PostgresStore) SavedItems(context context.Context, userID int64) ([]Entry, error) {
	table := schema.LibraryWatchlist
	return repository.listEntries(context, userID, table.Table, table.UserID, table.MovieID, table.SavedAt)
}

// # Ratings

func (repository *PostgresStore) Rate(context context.Context, userID, itemID int64, rating int) error {
	if err := checkRating(rating); err != nil {
		return err
	}

	table := schema.SocialRating
	query, args, err := repository.builder.
		Insert(table.Table).
		Columns(table.UserID, table.MovieID, table.Score).
		Values(userID, itemID, rating).
		Suffix(fmt.Sprintf(
			"ON CONFLICT (%[1]s, %[2]s) DO UPDATE SET %[3]s = EXCLUDED.%[3]s, %[4]s = now()",
			table.UserID, table.MovieID, table.Score, table.UpdatedAt,
		)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build_rate_failed: %w", err)
	}

	if _, err := repository.pool.Exec(context, query, args...); err != nil {
		return dberr.Wrap(err, "Rating", "rate")
	}
	return nil
}

func (repository *PostgresStore) RatingOf(context context.Context, userID, itemID int64) (int, bool, error) {
	table := schema.SocialRating
	query, args, err := repository.builder.
		Select(table.Score).
		From(table.Table).
		Where(sq.Eq{table.UserID: userID, table.MovieID: itemID}).
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build_rating_of_failed: %w", err)
	}

	var score int16
	err = repository.pool.QueryRow(context, query, args...).Scan(&score)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, dberr.Wrap(err, "Rating", "rating_of")
	}
	return int(score), true, nil
}

// # Helpers

// selectEntries builds the list query shared by history and watchlist.
func (repository *PostgresStore) selectEntries(userID int64, tableName, userColumn, itemColumn, atColumn string) (string, []interface{}, error) {
	return repository.builder.
		Select(itemColumn, atColumn).
		From(tableName).
		Where(sq.Eq{userColumn: userID}).
		OrderBy(atColumn+" DESC", itemColumn+" DESC").
		ToSql()
}

func (repository *PostgresStore) listEntries(context context.Context, userID int64, tableName, userColumn, itemColumn, atColumn string) ([]Entry, error) {
	query, args, err := repository.selectEntries(userID, tableName, userColumn, itemColumn, atColumn)
	if err != nil {
		return nil, fmt.Errorf("build_list_failed: %w", err)
	}

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "Entries", "list_"+tableName)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var entry Entry
		var at time.Time
		err := row.Scan(&entry.ItemID, &at)
		entry.At = at.UTC()
		return entry, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "Entries", "scan_"+tableName)
	}

	// Microsecond timestamps can tie; the shared sort keeps backends consistent.
	sortRecentFirst(entries)
	return entries, nil
}
