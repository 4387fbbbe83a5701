package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	_ "github.com/lib/pq"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/fastygo/planner/assets"
	"github.com/fastygo/planner/internal/config"
)

// RunMigrations applies pending schema migrations when enabled. Migrations
// come from MIGRATIONS_PATH when set, otherwise from the embedded copy.
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil || !cfg.Migrations.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("ping for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, origin, err := newMigrator(cfg.Migrations.Path, cfg.Database.Name, driver)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	logger.Info("database migrations applied",
		zap.String("source", origin),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

func newMigrator(path, dbName string, driver database.Driver) (*migrate.Migrate, string, error) {
	if path != "" {
		sourceURL := fmt.Sprintf("file://%s", filepath.ToSlash(path))
		m, err := migrate.NewWithDatabaseInstance(sourceURL, dbName, driver)
		return m, sourceURL, err
	}

	src, err := embeddedSource()
	if err != nil {
		return nil, "", err
	}
	m, err := migrate.NewWithInstance("iofs", src, dbName, driver)
	return m, "embedded", err
}

func embeddedSource() (source.Driver, error) {
	return iofs.New(assets.Migrations, "migrations")
}
