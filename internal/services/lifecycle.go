package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nassimdv/workload-app/internal/models"
)

// Lifecycle advances devis realization statuses. It runs before every devis
// list fetch, so AdvanceExpired must stay idempotent.
type Lifecycle struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewLifecycle(db *gorm.DB) *Lifecycle {
	return &Lifecycle{DB: db, Now: time.Now}
}

// AdvanceExpired transitions every "En cours" devis whose end date is
// strictly in the past to "Terminé". Each affected record is persisted
// immediately; the first update failure aborts the scan and propagates so the
// caller retries the whole list operation.
func (s *Lifecycle) AdvanceExpired(ctx context.Context) error {
	var devisList []models.Devis
	if err := s.DB.WithContext(ctx).Find(&devisList).Error; err != nil {
		return fmt.Errorf("loading devis: %w", err)
	}

	now := s.Now()
	for _, d := range devisList {
		if d.DateFin == nil {
			continue
		}
		if d.DateFin.Before(now) && d.StatutRealisation == models.StatutEnCours {
			err := s.DB.WithContext(ctx).Model(&models.Devis{}).
				Where("id = ?", d.ID).
				Update("statut_realisation", models.StatutTermine).Error
			if err != nil {
				return fmt.Errorf("advancing devis %s: %w", d.ID, err)
			}
		}
	}
	return nil
}
