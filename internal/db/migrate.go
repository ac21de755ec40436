package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migrationLogger struct{}

func (migrationLogger) Printf(format string, v ...any) {
	log.Infof("[migrate] "+format, v...)
}

func (migrationLogger) Verbose() bool {
	return log.IsLevelEnabled(log.DebugLevel)
}

func newMigrate(params NewDBPoolParams) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, params.ConnString("pgx5"))
	if err != nil {
		return nil, fmt.Errorf("new migrate instance: %w", err)
	}
	m.Log = migrationLogger{}

	return m, nil
}

// Migrate applies all pending up migrations and returns the resulting schema version.
func Migrate(params NewDBPoolParams) (uint, error) {
	m, err := newMigrate(params)
	if err != nil {
		return 0, err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Warnf("close migrate: source [%v], db [%v]", srcErr, dbErr)
		}
	}()

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		log.Infoln("no new migrations to apply")
	case err != nil:
		return 0, fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("migration version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema is dirty at version %d", version)
	}

	return version, nil
}

// MigrateDown rolls back every applied migration.
func MigrateDown(params NewDBPoolParams) error {
	m, err := newMigrate(params)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}
