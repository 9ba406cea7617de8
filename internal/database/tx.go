package database

import (
	"context"
	"database/sql"
	"fmt"
)

// WithTx starts a transaction, runs fn and commits when fn returns nil.
// The transaction is rolled back when fn returns an error or panics; the
// panic is re-raised after the rollback.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback(); rbErr != nil && err != nil && rbErr != sql.ErrTxDone {
			err = fmt.Errorf("rollback failed (%v) after: %w", rbErr, err)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
