package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/quill-blog/server/config"
)

//go:embed migrations
var migrationsFS embed.FS

// Direction selects which way Migrate moves the schema.
type Direction int

const (
	Up Direction = iota
	Down
)

// Migrate applies the embedded migrations for cfg.Driver.
//
// For postgres a dedicated pool is opened from the DSN and closed afterwards,
// because the postgres migrate driver pins a connection until it is closed.
// For sqlite the shared handle is used directly, which is what keeps an
// in-memory database usable after migrating.
func Migrate(ctx context.Context, conn *sql.DB, cfg config.DatabaseConfig, dir Direction) error {
	src, err := iofs.New(migrationsFS, "migrations/"+cfg.Driver)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	var (
		driver database.Driver
		owned  *sql.DB
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		owned, err = openPostgres(ctx, cfg.DSN())
		if err != nil {
			return fmt.Errorf("open migration connection: %w", err)
		}
		driver, err = postgres.WithInstance(owned, &postgres.Config{})
	case config.DriverSQLite:
		driver, err = sqlite.WithInstance(conn, &sqlite.Config{})
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		_ = src.Close()
		if owned != nil {
			_ = owned.Close()
		}
		return fmt.Errorf("init migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", src, cfg.Driver, driver)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("init migrator: %w", err)
	}
	if owned != nil {
		defer func() {
			_, _ = migrator.Close()
		}()
	} else {
		defer src.Close()
	}

	switch dir {
	case Down:
		err = migrator.Down()
	default:
		err = migrator.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
