package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/admin/tg-bots/market-bot/internal/ports/persistence"
	"github.com/jmoiron/sqlx"
)

// executor общие запросы поверх пула или открытой транзакции
type executor struct {
	ext sqlx.ExtContext
}

func (e executor) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.GetContext(ctx, e.ext, dest, query, args...)
}

func (e executor) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, e.ext, dest, query, args...)
}

func (e executor) Exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := e.ext.ExecContext(ctx, query, args...)
	return err
}

// ExecWithResult количество затронутых строк, на нём держатся условные UPDATE переходов статуса
func (e executor) ExecWithResult(ctx context.Context, query string, args ...interface{}) (int64, error) {
	return rowsAffected(e.ext.ExecContext(ctx, query, args...))
}

func (e executor) NamedExec(ctx context.Context, query string, arg interface{}) error {
	_, err := sqlx.NamedExecContext(ctx, e.ext, query, arg)
	return err
}

func (e executor) NamedExecWithResult(ctx context.Context, query string, arg interface{}) (int64, error) {
	return rowsAffected(sqlx.NamedExecContext(ctx, e.ext, query, arg))
}

func (e executor) QueryRow(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return e.ext.QueryRowxContext(ctx, query, args...)
}

func rowsAffected(result sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DB реализует persistence.Persistence поверх пула sqlx
type DB struct {
	executor
	db *sqlx.DB
}

func NewDB(db *sqlx.DB) *DB {
	return &DB{executor: executor{ext: db}, db: db}
}

// Tx открытая транзакция, запросы идут через тот же executor
type Tx struct {
	executor
	tx *sqlx.Tx
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

func (d *DB) BeginTx(ctx context.Context) (persistence.Transaction, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &Tx{executor: executor{ext: tx}, tx: tx}, nil
}

// WithTransaction commit при успехе fn, rollback при ошибке или панике.
// Завершение заказа, счётчики продаж и выплата продавцу фиксируются здесь одним коммитом.
func (d *DB) WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error {
	tx, err := d.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("rollback after %v: %w", err, rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping для /ready
func (d *DB) PingContext(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.db.Close()
}
