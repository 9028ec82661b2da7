package infra

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"crm/internal/model"
)

// Sqlite opens the entity store and migrates the schema. The demo runs it
// on an in-memory DSN, any file DSN works the same way.
func Sqlite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database - %w", err)
	}

	if err := db.AutoMigrate(&model.Customer{}, &model.Contact{}, &model.Opportunity{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema - %w", err)
	}
	return db, nil
}
