package handlers

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nassimdv/workload-app/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Manager{}, &models.Project{},
		&models.Devis{}, &models.UserDevis{}, &models.Task{},
		&models.Availability{}, &models.MonthlyProductionRate{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func timePtr(t time.Time) *time.Time { return &t }
