package database

import (
	"context"
	"testing"

	"dealership/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", gormlogger.Discard)
	require.NoError(t, err)

	_, err = Migrate(context.Background(), db, config.DriverSQLite)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	applied, err := Migrate(context.Background(), db, config.DriverSQLite)
	require.NoError(t, err)
	assert.Zero(t, applied)

	for _, table := range []string{"users", "cars", "car_images"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestMigrate_UnknownDriver(t *testing.T) {
	db := newTestDB(t)

	_, err := Migrate(context.Background(), db, "oracle")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "dealership.db?_pragma=busy_timeout(5000)", sqliteDSN("dealership.db"))
	assert.Equal(t, "file:x?mode=memory&_pragma=busy_timeout(5000)", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "a.db?_pragma=foreign_keys(1)", sqliteDSN("a.db?_pragma=foreign_keys(1)"))
}

func TestSchemaManager(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{Database: &config.DatabaseConfig{Driver: config.DriverSQLite}}
	manager := NewSchemaManager(db, cfg)

	require.NoError(t, manager.Ping(context.Background()))

	applied, err := manager.Migrate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, applied)
}
