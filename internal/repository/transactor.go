package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type transactor struct {
	db *sqlx.DB
}

func newTransactor(db *sqlx.DB) *transactor {
	return &transactor{db: db}
}

// WithinTx runs fn in a transaction, committing on nil and rolling back otherwise.
func (t *transactor) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx failed: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v: %w", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx failed: %w", err)
	}

	return nil
}
