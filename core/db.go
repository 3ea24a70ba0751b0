package core

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type (
	DBExecutor interface {
		sqlx.ExtContext

		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	DB interface {
		DBExecutor

		Beginx() (DBTransactor, error)
		BeginTxx(ctx context.Context, opts *sql.TxOptions) (DBTransactor, error)
	}

	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}
)

var _ DBTransactor = (*sqlx.Tx)(nil)

// sqlxDB adapts *sqlx.DB to the DB interface.
type sqlxDB struct{ *sqlx.DB }

func (db sqlxDB) Beginx() (DBTransactor, error) { return db.DB.Beginx() }
func (db sqlxDB) BeginTxx(ctx context.Context, opts *sql.TxOptions) (DBTransactor, error) {
	return db.DB.BeginTxx(ctx, opts)
}

func WrapDB(db *sqlx.DB) DB { return sqlxDB{db} }
