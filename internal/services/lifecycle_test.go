package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nassimdv/workload-app/internal/models"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// unique in-memory DB per test name to avoid leakage via shared cache
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	err = db.AutoMigrate(
		&models.User{}, &models.Manager{}, &models.Project{},
		&models.Devis{}, &models.UserDevis{}, &models.Task{},
		&models.Availability{}, &models.MonthlyProductionRate{},
	)
	require.NoError(t, err)
	return db
}

func datePtr(t time.Time) *time.Time { return &t }

func TestAdvanceExpiredTransitionsPastEnCours(t *testing.T) {
	db := setupServiceTestDB(t)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := &Lifecycle{DB: db, Now: func() time.Time { return now }}

	expired := models.Devis{
		ID: "d-expired", NumeroDac: "DAC-1", Version: 1,
		DateFin:           datePtr(now.AddDate(0, 0, -1)),
		StatutRealisation: models.StatutEnCours,
	}
	running := models.Devis{
		ID: "d-running", NumeroDac: "DAC-2", Version: 1,
		DateFin:           datePtr(now.AddDate(0, 0, 10)),
		StatutRealisation: models.StatutEnCours,
	}
	require.NoError(t, db.Create(&expired).Error)
	require.NoError(t, db.Create(&running).Error)

	require.NoError(t, svc.AdvanceExpired(context.Background()))

	// Fresh structs per fetch: gorm keeps a populated primary key in the
	// statement conditions when the destination is reused.
	var gotExpired models.Devis
	require.NoError(t, db.First(&gotExpired, "id = ?", "d-expired").Error)
	require.Equal(t, models.StatutTermine, gotExpired.StatutRealisation)

	var gotRunning models.Devis
	require.NoError(t, db.First(&gotRunning, "id = ?", "d-running").Error)
	require.Equal(t, models.StatutEnCours, gotRunning.StatutRealisation)
}

func TestAdvanceExpiredLeavesOtherStatusesAlone(t *testing.T) {
	db := setupServiceTestDB(t)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := &Lifecycle{DB: db, Now: func() time.Time { return now }}

	past := datePtr(now.AddDate(0, -1, 0))
	fixtures := []models.Devis{
		{ID: "d-termine", NumeroDac: "DAC-1", DateFin: past, StatutRealisation: models.StatutTermine},
		{ID: "d-annule", NumeroDac: "DAC-2", DateFin: past, StatutRealisation: models.StatutAnnule},
		{ID: "d-brouillon", NumeroDac: "DAC-3", DateFin: past, StatutRealisation: models.StatutBrouillon},
		{ID: "d-nodate", NumeroDac: "DAC-4", DateFin: nil, StatutRealisation: models.StatutEnCours},
	}
	for i := range fixtures {
		require.NoError(t, db.Create(&fixtures[i]).Error)
	}

	require.NoError(t, svc.AdvanceExpired(context.Background()))

	for _, f := range fixtures {
		var got models.Devis
		require.NoError(t, db.First(&got, "id = ?", f.ID).Error)
		require.Equal(t, f.StatutRealisation, got.StatutRealisation, "devis %s must be untouched", f.ID)
	}
}

func TestAdvanceExpiredIsIdempotent(t *testing.T) {
	db := setupServiceTestDB(t)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := &Lifecycle{DB: db, Now: func() time.Time { return now }}

	d := models.Devis{
		ID: "d-1", NumeroDac: "DAC-1",
		DateFin:           datePtr(now.AddDate(0, 0, -3)),
		StatutRealisation: models.StatutEnCours,
	}
	require.NoError(t, db.Create(&d).Error)

	require.NoError(t, svc.AdvanceExpired(context.Background()))
	var after1 models.Devis
	require.NoError(t, db.First(&after1, "id = ?", "d-1").Error)

	require.NoError(t, svc.AdvanceExpired(context.Background()))
	var after2 models.Devis
	require.NoError(t, db.First(&after2, "id = ?", "d-1").Error)

	require.Equal(t, models.StatutTermine, after1.StatutRealisation)
	require.Equal(t, after1.StatutRealisation, after2.StatutRealisation)
	require.Equal(t, after1.UpdatedAt, after2.UpdatedAt, "second run must not rewrite the row")
}
