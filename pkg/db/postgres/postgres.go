// Package postgres owns the connection pool backing the read-only
// catalogs (tracks, drivers, compounds, scenarios). Nothing in the
// Engine, Scheduler or Predictor talks to Postgres directly — only
// pkg/catalog does, through this pool.
package postgres

import (
	"context"

	pgxuuid "github.com/jackc/pgx-gofrs-uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayyushutup/boxbox/log"
)

var DbPool *pgxpool.Pool

type PoolConfigOption func(cfg *pgxpool.Config)

// WithTracer wires a query tracer that logs every statement at debug
// level through the shared log package, grounded on the teacher's
// myQueryTracer but retargeted at our own Logger instead of a raw
// zap.SugaredLogger.
func WithTracer(logger *log.Logger) PoolConfigOption {
	return func(cfg *pgxpool.Config) {
		cfg.ConnConfig.Tracer = &queryTracer{log: logger}
	}
}

func InitWithUrl(ctx context.Context, url string, opts ...PoolConfigOption) (*pgxpool.Pool, error) {
	dbConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}

	dbConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxuuid.Register(conn.TypeMap())
		return nil
	}
	for _, opt := range opts {
		opt(dbConfig)
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	DbPool = pool
	return pool, nil
}

func CloseDb() {
	if DbPool != nil {
		DbPool.Close()
	}
}

type queryTracer struct {
	log *log.Logger
}

func (t *queryTracer) TraceQueryStart(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryStartData,
) context.Context {
	t.log.Debug("executing query", log.String("sql", data.SQL), log.Any("args", data.Args))
	return ctx
}

func (t *queryTracer) TraceQueryEnd(
	ctx context.Context,
	conn *pgx.Conn,
	data pgx.TraceQueryEndData,
) {
	if data.Err != nil {
		t.log.Warn("query failed", log.ErrorField(data.Err))
	}
}
