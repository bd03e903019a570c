package postgres

import (
	"context"
	"database/sql"
	"errors"

	"atlas/internal/repository"
)

// Querier is satisfied by both *sql.DB and *sql.Tx, so a repository can join a caller's transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// mapNoRows turns an empty result into repository.ErrNotFound.
func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// Ensure interfaces are satisfied.
var (
	_ Querier    = (*sql.DB)(nil)
	_ Querier    = (*sql.Tx)(nil)
	_ rowScanner = (*sql.Row)(nil)
	_ rowScanner = (*sql.Rows)(nil)
)
