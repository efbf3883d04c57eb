// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/database/schema"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/dberr"
)

// # Repository Implementations

// PostgresAccountRepository implements [AccountRepository] on users.account.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// selectColumns lists the columns scanned by [scanAccount], in order.
func selectColumns() string {
	table := schema.UserAccount
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s",
		table.ID, table.DisplayName, table.Email, table.Password, table.Role, table.CreatedAt)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.CreatedAt,
	)
	return account, err
}

/*
Create inserts a new account.

Description: The unique index on lower(email) turns a duplicate sign-up
into a 23505 violation, surfaced as apperr.Conflict.
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		table.Table, table.DisplayName, table.Email, table.Password, table.Role,
		table.ID, table.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		account.Name, account.Email, account.PasswordHash, string(account.Role),
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "Email", "postgres_account_create_failed")
	}
	return nil
}

// FindByEmail looks an account up by email, ignoring case.
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	table := schema.UserAccount
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1)`,
		selectColumns(), table.Table, table.Email)

	account, err := scanAccount(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_find_by_email_failed")
	}
	return account, nil
}

// FindByID loads one account.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id int64) (*Account, error) {
	table := schema.UserAccount
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns(), table.Table, table.ID)

	account, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_find_by_id_failed")
	}
	return account, nil
}
