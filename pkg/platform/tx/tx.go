package tx

import (
	"context"
	"database/sql"
	"fmt"
)

type (
	ctxKey  struct{}
	unitKey struct{}
)

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context so stores called inside
// RunInTx share it.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// MarkUnit flags ctx as running inside a unit of work that has no SQL
// transaction (in-memory runners).
func MarkUnit(ctx context.Context) context.Context {
	return context.WithValue(ctx, unitKey{}, true)
}

// InUnit reports whether ctx is inside a unit of work. Callers inside one
// must leave retries to the owner of the unit.
func InUnit(ctx context.Context) bool {
	if _, ok := From(ctx); ok {
		return true
	}
	marked, _ := ctx.Value(unitKey{}).(bool)
	return marked
}

// Executor is the subset of *sql.DB and *sql.Tx used by stores.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Exec returns the transaction carried by ctx, or db when there is none.
func Exec(ctx context.Context, db *sql.DB) Executor {
	if t, ok := From(ctx); ok {
		return t
	}
	return db
}

// Savepoint runs fn against the transaction in ctx behind a savepoint, so a
// failed statement inside fn is undone without aborting the transaction.
// Without a transaction fn runs against db directly. name must be a plain
// SQL identifier.
func Savepoint(ctx context.Context, db *sql.DB, name string, fn func(Executor) error) error {
	t, ok := From(ctx)
	if !ok {
		return fn(db)
	}
	if _, err := t.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("savepoint %s: %w", name, err)
	}
	if err := fn(t); err != nil {
		if _, rbErr := t.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("rollback to savepoint %s: %w (after %v)", name, rbErr, err)
		}
		return err
	}
	if _, err := t.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("release savepoint %s: %w", name, err)
	}
	return nil
}

// Runner runs fn inside a unit of work. Stores reached through the context
// passed to fn participate in it.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SQLRunner runs units of work in a database transaction.
type SQLRunner struct {
	db *sql.DB
}

func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

// RunInTx commits when fn returns nil and rolls back otherwise. Nested calls
// reuse the outer transaction.
func (r *SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()
	if err = fn(WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	return sqlTx.Commit()
}
