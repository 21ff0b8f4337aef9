package store

import (
	"context"
	"database/sql"

	"tradejournal/internal/db"
	"tradejournal/internal/models"
)

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type DB interface {
	Execer
	Getter
	Selecter
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, tx Execer, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return db.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// execMany runs a set-based statement and reports how many rows it touched.
func execMany(ctx context.Context, tx Execer, query string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, db.MapError(err)
	}
	return res.RowsAffected()
}
