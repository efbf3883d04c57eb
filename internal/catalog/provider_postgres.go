// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/database/schema"
)

// # PostgreSQL Provider

// PostgresProvider reads the catalog from the core.item table.
//
// Rows are ordered by their explicit load position, then by id, so that the
// database source yields the same load order on every reload.
type PostgresProvider struct {
	pool *pgxpool.Pool
}

// NewPostgresProvider creates a provider backed by the shared pool.
func NewPostgresProvider(pool *pgxpool.Pool) *PostgresProvider {
	return &PostgresProvider{pool: pool}
}

// Name implements [Provider].
func (provider *PostgresProvider) Name() string {
	return "postgres"
}

// selectItems builds the catalog query.
func selectItems() (string, []interface{}, error) {
	table := schema.CoreItem
	return sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select(
			table.ID,
			table.Title,
			fmt.Sprintf("coalesce(array_to_string(%s, '|'), '')", table.Labels),
			table.QualityScore,
		).
		From(table.Table).
		Where(sq.Eq{table.DeletedAt: nil}).
		OrderBy(table.LoadPosition+" ASC", table.ID+" ASC").
		ToSql()
}

// Load implements [Provider].
func (provider *PostgresProvider) Load(context context.Context) ([]Row, error) {
	query, args, err := selectItems()
	if err != nil {
		return nil, fmt.Errorf("build catalog query: %w", err)
	}

	rows, err := provider.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query core.item: %w", ErrSourceUnavailable, err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Row, error) {
		var item Row
		err := row.Scan(&item.ID, &item.Title, &item.Labels, &item.QualityScore)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan core.item: %w", err)
	}

	return result, nil
}
