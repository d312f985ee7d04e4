package db

import (
	"context"
	"database/sql"
)

// DBTX is what the plan and plan-task repositories query through. Passing
// the *sql.DB gives standalone reads; passing the *sql.Tx from WithinTx puts
// a plan header and its task rows in the same commit.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
