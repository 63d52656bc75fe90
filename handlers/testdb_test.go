package handlers

import (
	"fmt"
	"testing"

	"codequest-platform/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a named shared in-memory SQLite database, one per
// test, matching the setup the services package tests with.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Module{},
		&models.Lesson{},
		&models.UserProgress{},
		&models.Friendship{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
