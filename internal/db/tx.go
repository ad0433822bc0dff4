// Package db holds small database/sql helpers shared by the state and
// library packages.
package db

import (
	"database/sql"
)

// WithTx runs fn inside a transaction, committing on success and rolling
// back when fn returns an error.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
