package database

import (
	"context"

	"dealership/config"
	"dealership/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type schemaManager struct {
	db     *gorm.DB
	driver string
}

// NewSchemaManager exposes connectivity checks and migrations of the configured database.
func NewSchemaManager(db *gorm.DB, cfg *config.Config) repository.SchemaManager {
	return &schemaManager{db: db, driver: cfg.Database.Driver}
}

func (m *schemaManager) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}

	return errors.Wrap(sqlDB.PingContext(ctx), "database ping failed")
}

func (m *schemaManager) Migrate(ctx context.Context) (int, error) {
	return Migrate(ctx, m.db, m.driver)
}
