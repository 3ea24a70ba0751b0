// Package inmemdb provides map-backed repositories for tests and local
// development without a running Postgres.
package inmemdb

import (
	"context"
	"database/sql"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/hamasa/core"
	"github.com/trezcool/hamasa/core/assignment"
	"github.com/trezcool/hamasa/core/mood"
	"github.com/trezcool/hamasa/core/user"
)

type DB struct {
	stubExec

	mutex sync.RWMutex

	users       map[string]user.User    // by id
	profiles    map[string]user.Profile // by user id
	loginEvents []user.LoginEvent

	assignments []assignment.Assignment
	progress    map[string]assignment.Progress // by assignment id + user id

	moods []mood.Entry
}

func Open() *DB {
	return &DB{
		users:    make(map[string]user.User),
		profiles: make(map[string]user.Profile),
		progress: make(map[string]assignment.Progress),
	}
}

func progressKey(assignmentID, userID string) string { return assignmentID + "|" + userID }

var (
	_ core.DB           = (*DB)(nil)
	_ core.DBTransactor = nopTx{}
)

// Writes through the in-memory repositories apply immediately, so the
// core.DB contract collapses to no-op transactions.
func (db *DB) Beginx() (core.DBTransactor, error) { return nopTx{}, nil }
func (db *DB) BeginTxx(ctx context.Context, opts *sql.TxOptions) (core.DBTransactor, error) {
	return nopTx{}, nil
}

type nopTx struct{ stubExec }

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

// stubExec satisfies core.DBExecutor. The repositories ignore their
// executor arguments, so none of these are ever reached.
type stubExec struct{}

func (stubExec) DriverName() string     { return "inmem" }
func (stubExec) Rebind(q string) string { return q }
func (stubExec) BindNamed(q string, arg interface{}) (string, []interface{}, error) {
	return q, nil, nil
}
func (stubExec) QueryContext(ctx context.Context, q string, args ...interface{}) (*sql.Rows, error) {
	return nil, sql.ErrConnDone
}
func (stubExec) QueryxContext(ctx context.Context, q string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, sql.ErrConnDone
}
func (stubExec) QueryRowxContext(ctx context.Context, q string, args ...interface{}) *sqlx.Row {
	return nil
}
func (stubExec) ExecContext(ctx context.Context, q string, args ...interface{}) (sql.Result, error) {
	return nil, sql.ErrConnDone
}
func (stubExec) GetContext(ctx context.Context, dest interface{}, q string, args ...interface{}) error {
	return sql.ErrConnDone
}
func (stubExec) SelectContext(ctx context.Context, dest interface{}, q string, args ...interface{}) error {
	return sql.ErrConnDone
}
