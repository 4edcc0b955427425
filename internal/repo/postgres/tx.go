package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(context.Context, pgx.Tx) error) error {
	if pool == nil {
		return errors.New("postgres pool is nil")
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// Store reads through the pool; InTx hands out a Tx with the same method set
// bound to one transaction.
type Store struct {
	pool *pgxpool.Pool
	repo
}

type Tx struct {
	repo
}

type repo struct {
	q querier
}

func NewStore(pool *pgxpool.Pool) *Store {
	store := &Store{pool: pool}
	if pool != nil {
		store.q = pool
	}
	return store
}

func (s *Store) InTx(ctx context.Context, fn func(*Tx) error) error {
	return WithTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(&Tx{repo: repo{q: tx}})
	})
}

func (r repo) ready() error {
	if r.q == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	return nil
}
