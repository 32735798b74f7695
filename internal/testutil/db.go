package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/enrudae/TutorToolkit/internal/models"
)

var dbSeq atomic.Int64

// SetupTestDB открывает изолированную базу SQLite в памяти и накатывает
// схему. База закрывается при завершении теста.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Именованная in-memory база: общая для всех соединений пула
	// внутри теста, но не между тестами
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.EducationPlan{},
		&models.Module{},
		&models.Card{},
		&models.CardSection{},
		&models.Label{},
		&models.Lesson{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying DB: %v", err)
	}
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}
	})

	return gdb
}
