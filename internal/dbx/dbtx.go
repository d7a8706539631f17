// Package dbx holds the database/sql abstraction shared by SQL repositories.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by repositories, so they run
// unchanged against a *sql.DB or inside a *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
