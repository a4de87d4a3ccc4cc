//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"testing"
)

// WithTx runs fn inside a transaction that is always rolled back, so tests
// can share one database without cleaning up after themselves.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin test transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("rollback test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
