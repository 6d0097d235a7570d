package database

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"promptly/internal/config"
	"promptly/internal/middleware"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationStatus describes the schema version recorded by the migrator.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Latest  uint
}

// Pending reports whether embedded migrations newer than Version exist.
func (s MigrationStatus) Pending() bool {
	return s.Version < s.Latest
}

func newMigrator(cfg *config.Config) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, PostgresURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("init migrator failed: %w", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		middleware.Logger.Warn("closing migrator", slog.Any("source_error", srcErr), slog.Any("database_error", dbErr))
	}
}

// MigrateUp applies every pending embedded migration.
func MigrateUp(cfg *config.Config) error {
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			middleware.Logger.Debug("schema already up to date")
			return nil
		}
		return fmt.Errorf("migrate up failed: %w", err)
	}
	middleware.Logger.Info("SQL migrations applied")
	return nil
}

// MigrateDown rolls back the given number of migrations.
func MigrateDown(cfg *config.Config, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down failed: %w", err)
	}
	return nil
}

// GetMigrationStatus reports the applied version and the newest embedded version.
func GetMigrationStatus(cfg *config.Config) (*MigrationStatus, error) {
	latest, err := LatestMigrationVersion()
	if err != nil {
		return nil, err
	}

	m, err := newMigrator(cfg)
	if err != nil {
		return nil, err
	}
	defer closeMigrator(m)

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return &MigrationStatus{Latest: latest}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read schema version: %w", err)
	}
	return &MigrationStatus{Version: version, Dirty: dirty, Latest: latest}, nil
}

// LatestMigrationVersion returns the highest embedded migration version.
func LatestMigrationVersion() (uint, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return 0, err
	}
	defer src.Close()

	version, err := src.First()
	if err != nil {
		return 0, err
	}
	for {
		next, err := src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			return version, nil
		}
		if err != nil {
			return 0, err
		}
		version = next
	}
}
