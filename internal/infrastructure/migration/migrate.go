// Package migration applies the SQL schema in migrations/ with golang-migrate.
package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator wraps a golang-migrate instance bound to a postgres database
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New creates a Migrator reading migrations from migrationsPath
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{migrate: m, logger: logger}, nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	return m.run("up", m.migrate.Up)
}

// Down rolls every migration back
func (m *Migrator) Down() error {
	return m.run("down", m.migrate.Down)
}

// Steps applies n migrations; negative n rolls back
func (m *Migrator) Steps(n int) error {
	return m.run(fmt.Sprintf("step %d", n), func() error { return m.migrate.Steps(n) })
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	return m.run(fmt.Sprintf("goto %d", version), func() error { return m.migrate.Migrate(version) })
}

func (m *Migrator) run(op string, fn func() error) error {
	m.logger.Info("Running migration", zap.String("op", op))
	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migration changes", zap.String("op", op))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", op, err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Migration complete",
		zap.String("op", op),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// Version returns the applied version; 0 when nothing has been applied
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force records version as applied without running anything. It is the way
// out of a dirty state after a failed migration has been fixed by hand.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	srcErr, dbErr := m.migrate.Close()
	return errors.Join(srcErr, dbErr)
}
