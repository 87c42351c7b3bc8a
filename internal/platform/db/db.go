package db

import (
	"context"
	"database/sql"
)

// Executor is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories run their queries against it so the same method works inside
// and outside a transaction.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type TxManager interface {
	// RunInTx executes the given function within a database transaction.
	// It begins a transaction, calls the function with a new context
	// containing the transaction, and then commits or rolls back
	// based on the function's return value.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ExecutorFrom returns the transaction stored in the context, or falls back
// to the given connection when the call is not transactional.
func ExecutorFrom(ctx context.Context, conn *sql.DB) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}
