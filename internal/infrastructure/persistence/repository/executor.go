package repository

import (
	"context"
	"database/sql"

	"github.com/stormline/roofcrm/internal/infrastructure/persistence/sqlite"
)

// executor interface covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// getExecutor returns the context transaction when one is open, the pool
// otherwise
func getExecutor(ctx context.Context, db *sql.DB) executor {
	if tx, ok := sqlite.TxFrom(ctx); ok && tx != nil {
		return tx
	}
	return db
}
