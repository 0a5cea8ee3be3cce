package database

import (
	"context"
	"embed"
	"io/fs"

	"dealership/config"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migrate applies every pending embedded migration for the given driver and
// returns the number of migrations applied.
func Migrate(ctx context.Context, db *gorm.DB, driver string) (int, error) {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch driver {
	case config.DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	case config.DriverPostgres:
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	default:
		return 0, errors.Errorf("unsupported database driver: %s", driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get sql.DB for migrations")
	}

	fsys, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return 0, errors.Wrap(err, "failed to open embedded migrations")
	}

	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create migration provider")
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to apply migrations")
	}

	return len(results), nil
}
