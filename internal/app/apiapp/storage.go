package apiapp

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ivankudzin/estate-backoffice/internal/config"
	"github.com/ivankudzin/estate-backoffice/internal/repo/memory"
	pgrepo "github.com/ivankudzin/estate-backoffice/internal/repo/postgres"
	"github.com/ivankudzin/estate-backoffice/internal/repo/replica"
	auditsvc "github.com/ivankudzin/estate-backoffice/internal/services/audit"
	countersvc "github.com/ivankudzin/estate-backoffice/internal/services/counters"
	listingsvc "github.com/ivankudzin/estate-backoffice/internal/services/listings"
	reportsvc "github.com/ivankudzin/estate-backoffice/internal/services/reports"
)

type reader interface {
	listingsvc.Reader
	reportsvc.Reader
	auditsvc.Reader
	countersvc.StatusCounter
}

type storage struct {
	reader    reader
	counter   countersvc.StatusCounter
	listingTx listingsvc.TxFunc
	reportTx  reportsvc.TxFunc
	pool      *pgxpool.Pool
	replica   *sql.DB
}

func openStorage(ctx context.Context, cfg config.Config, log *zap.Logger) storage {
	if cfg.Storage.Driver == "memory" {
		log.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return storage{
			reader:    store,
			counter:   store,
			listingTx: listingsTx(store.InTx),
			reportTx:  reportsTx(store.InTx),
		}
	}

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, poolConfig(cfg.Postgres)); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}
	store := pgrepo.NewStore(pool)

	out := storage{
		reader:    store,
		counter:   store,
		listingTx: listingsTx(store.InTx),
		reportTx:  reportsTx(store.InTx),
		pool:      pool,
	}

	db, err := replica.Open(ctx, cfg.Postgres.ReplicaDSN)
	switch {
	case err != nil:
		log.Warn("replica init failed, counting on primary", zap.Error(err))
	case db != nil:
		out.replica = db
		out.counter = replica.NewCountsRepo(db)
	}
	return out
}

func (s storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.replica != nil {
		_ = s.replica.Close()
	}
}

func listingsTx[T listingsvc.Store](inTx func(context.Context, func(T) error) error) listingsvc.TxFunc {
	return func(ctx context.Context, fn func(listingsvc.Store) error) error {
		return inTx(ctx, func(tx T) error { return fn(tx) })
	}
}

func reportsTx[T reportsvc.Store](inTx func(context.Context, func(T) error) error) reportsvc.TxFunc {
	return func(ctx context.Context, fn func(reportsvc.Store) error) error {
		return inTx(ctx, func(tx T) error { return fn(tx) })
	}
}

func poolConfig(cfg config.PostgresConfig) pgrepo.PoolConfig {
	return pgrepo.PoolConfig{
		DSN:             cfg.DSN,
		MaxConns:        cfg.MaxConns,
		MinConns:        cfg.MinConns,
		MaxConnIdleTime: cfg.MaxConnIdleTime,
	}
}
