package xpgx

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ougirez/mothertongue/internal/pkg/logger"
)

// Querier runs squirrel builders. Pool and the transaction handed to InTx
// both implement it.
type Querier interface {
	Execx(ctx context.Context, query squirrel.Sqlizer) (pgconn.CommandTag, error)
	Queryx(ctx context.Context, query squirrel.Sqlizer) (pgx.Rows, error)
}

// Pool is the subset of pgxpool used by the store, plus squirrel-aware helpers.
type Pool interface {
	Querier
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	// InTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	InTx(ctx context.Context, fn func(Querier) error) error
	Close()
}

type conn interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

type pool struct {
	*pgxpool.Pool
}

type tx struct {
	pgx.Tx
}

// Connect opens a pool and pings it, retrying the ping while the database
// comes up.
func Connect(ctx context.Context, dsn string, retries uint64) (Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}

	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(2*time.Second), retries), ctx)
	err = backoff.RetryNotify(func() error {
		return p.Ping(ctx)
	}, b, func(err error, next time.Duration) {
		logger.Warnf(ctx, "postgres is not ready, retrying in %s: %v", next, err)
	})
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &pool{Pool: p}, nil
}

func (p *pool) Execx(ctx context.Context, query squirrel.Sqlizer) (pgconn.CommandTag, error) {
	return execx(ctx, p.Pool, query)
}

func (p *pool) Queryx(ctx context.Context, query squirrel.Sqlizer) (pgx.Rows, error) {
	return queryx(ctx, p.Pool, query)
}

func (p *pool) InTx(ctx context.Context, fn func(Querier) error) error {
	return pgx.BeginFunc(ctx, p.Pool, func(t pgx.Tx) error {
		return fn(&tx{Tx: t})
	})
}

func (t *tx) Execx(ctx context.Context, query squirrel.Sqlizer) (pgconn.CommandTag, error) {
	return execx(ctx, t.Tx, query)
}

func (t *tx) Queryx(ctx context.Context, query squirrel.Sqlizer) (pgx.Rows, error) {
	return queryx(ctx, t.Tx, query)
}

func execx(ctx context.Context, c conn, query squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("query.ToSql: %w", err)
	}
	return c.Exec(ctx, sql, args...)
}

func queryx(ctx context.Context, c conn, query squirrel.Sqlizer) (pgx.Rows, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("query.ToSql: %w", err)
	}
	return c.Query(ctx, sql, args...)
}

// Getx scans exactly one row into T by column name. An empty result is
// pgx.ErrNoRows.
func Getx[T any](ctx context.Context, p Querier, query squirrel.Sqlizer) (T, error) {
	var zero T
	rows, err := p.Queryx(ctx, query)
	if err != nil {
		return zero, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
}

// Selectx scans every row into T by column name.
func Selectx[T any](ctx context.Context, p Querier, query squirrel.Sqlizer) ([]T, error) {
	rows, err := p.Queryx(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}
