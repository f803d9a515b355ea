package postgres

import (
	"embed"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies all pending schema migrations.  An up-to-date schema is
// not an error.
func Migrate(cfg config.DatabaseConfig, logger logging.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "migration source unavailable")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.DSN())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "migrator construction failed")
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "migration failed")
	}
	logger.Named("postgres").Info("schema migrations applied")
	return nil
}
