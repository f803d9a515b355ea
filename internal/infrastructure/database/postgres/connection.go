// Package postgres manages the PostgreSQL connection pool and schema
// migrations for the molecule registry.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// NewPool opens and verifies a pgx connection pool.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger logging.Logger) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "invalid database configuration")
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pc.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "connection pool construction failed")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database unreachable").
			WithDetail("host=" + cfg.Host)
	}
	logger.Named("postgres").Info("database pool ready",
		logging.String("host", cfg.Host),
		logging.Int("max_conns", int(pc.MaxConns)))
	return pool, nil
}
