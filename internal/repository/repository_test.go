package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/quocanhngo/hifcm/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupDB opens an in-memory SQLite database with the device schema.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&model.User{}, &model.SubscriptionTerm{}, &model.Device{}, &model.DeviceToken{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
