package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/mysql/*.sql migrations/sqlite3/*.sql
var migrationFS embed.FS

// Migrator applies the embedded schema migrations for one database.
type Migrator struct {
	opts Options
}

// NewMigrator returns a Migrator for the database described by o.
func NewMigrator(o Options) *Migrator { return &Migrator{opts: o} }

// Up applies every pending migration.  An up-to-date schema is not an error.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, func(mg *migrate.Migrate) error {
		if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate up: %w", err)
		}
		return nil
	})
}

// Down rolls back the last steps migrations.
func (m *Migrator) Down(ctx context.Context, steps int) error {
	if steps < 1 {
		return fmt.Errorf("migrate down: invalid steps %d", steps)
	}
	return m.run(ctx, func(mg *migrate.Migrate) error {
		if err := mg.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate down: %w", err)
		}
		return nil
	})
}

// Version reports the current schema version.  A database that has never
// been migrated reports version 0.
func (m *Migrator) Version(ctx context.Context) (version uint, dirty bool, err error) {
	err = m.run(ctx, func(mg *migrate.Migrate) error {
		v, d, verr := mg.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			return fmt.Errorf("migrate version: %w", verr)
		}
		version, dirty = v, d
		return nil
	})
	return version, dirty, err
}

// run opens a dedicated connection for the migrate instance.  Closing the
// instance also closes that connection, so the application pool is never
// shared with it.
func (m *Migrator) run(ctx context.Context, fn func(*migrate.Migrate) error) error {
	db, err := Open(ctx, m.opts)
	if err != nil {
		return err
	}
	mg, err := m.instance(db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer mg.Close()
	mg.Log = migrateLogger{}
	return fn(mg)
}

func (m *Migrator) instance(db *sql.DB) (*migrate.Migrate, error) {
	name := m.opts.driverName()
	src, err := iofs.New(migrationFS, "migrations/"+name)
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	var drv migratedb.Driver
	switch name {
	case DriverMySQL:
		drv, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	case DriverSQLite:
		drv, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	return migrate.NewWithInstance("iofs", src, name, drv)
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), "component", "migrate")
}

func (migrateLogger) Verbose() bool { return false }
