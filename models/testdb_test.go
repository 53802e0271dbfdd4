package models_test

import (
	"context"
	"testing"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a per-test in-memory sqlite database and points the
// shared connection at it. The schema comes from the same AutoMigrate call
// the server runs at startup.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	config.SetDB(db)
	models.MigrateTable()

	t.Cleanup(func() {
		sqlDB, dbErr := db.DB()
		if dbErr == nil {
			_ = sqlDB.Close()
		}
		config.SetDB(nil)
	})
	return db
}

func mustCreateItem(t *testing.T, input *models.NewInventoryItem) *models.InventoryItem {
	t.Helper()
	item, err := models.CreateInventoryItem(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateInventoryItem(%s): %v", input.Name, err)
	}
	return item
}
