package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nassimdv/workload-app/internal/models"
)

// Production computes and materializes monthly per-user workload statistics.
// Recomputation is a full, stateless re-derivation: no deltas, so the rows
// can never silently diverge from the task and availability data.
type Production struct {
	DB *gorm.DB
}

func NewProduction(db *gorm.DB) *Production {
	return &Production{DB: db}
}

// ComputeMonthlyRates derives one MonthlyProductionRate row per (user, month)
// for the given year and upserts it. Source data is read in three batch
// queries up front; the aggregation itself runs in memory. Months are
// processed in order with fail-fast upserts: an error at month N leaves
// months N+1..12 unprocessed.
func (s *Production) ComputeMonthlyRates(ctx context.Context, year int) ([]models.MonthlyProductionRate, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	var users []models.User
	if err := s.DB.WithContext(ctx).Order("user_id asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}

	var availabilities []models.Availability
	if err := s.DB.WithContext(ctx).
		Where("week_start >= ? AND week_start < ?", yearStart, yearEnd).
		Order("id asc").
		Find(&availabilities).Error; err != nil {
		return nil, fmt.Errorf("loading availabilities: %w", err)
	}

	var tasks []models.Task
	if err := s.DB.WithContext(ctx).
		Where("start_date >= ? AND start_date < ? AND assigned_user_id IS NOT NULL", yearStart, yearEnd).
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	for month := time.January; month <= time.December; month++ {
		monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		monthEnd := monthStart.AddDate(0, 1, 0)
		monthKey := fmt.Sprintf("%d-%02d", year, int(month))

		for _, user := range users {
			availableDays := firstAvailability(availabilities, user.UserID, monthStart, monthEnd)
			workingDays, unbilledDays := sumTaskDays(tasks, user.UserID, monthStart, monthEnd)

			daysInvoiced := workingDays - unbilledDays
			var productionRate, occupationRate float64
			if availableDays > 0 {
				productionRate = daysInvoiced / availableDays
				occupationRate = workingDays / availableDays
			}

			row := models.MonthlyProductionRate{
				UserID:         user.UserID,
				Month:          monthKey,
				AvailableDays:  availableDays,
				WorkingDays:    workingDays,
				UnbilledDays:   unbilledDays,
				ProductionRate: productionRate,
				OccupationRate: occupationRate,
			}
			err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "month"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"available_days", "working_days", "unbilled_days",
					"production_rate", "occupation_rate", "updated_at",
				}),
			}).Create(&row).Error
			if err != nil {
				return nil, fmt.Errorf("upserting rate for user %d month %s: %w", user.UserID, monthKey, err)
			}
		}
	}

	// Reload the persisted rows so callers see definitive ids and timestamps.
	var saved []models.MonthlyProductionRate
	err := s.DB.WithContext(ctx).
		Where("month LIKE ?", fmt.Sprintf("%d-%%", year)).
		Order("month asc, user_id asc").
		Find(&saved).Error
	if err != nil {
		return nil, fmt.Errorf("reloading rates: %w", err)
	}
	return saved, nil
}

// firstAvailability mirrors the dashboard's long-standing behavior: the
// month's denominator is the daysAvailable of the first weekly record whose
// weekStart falls in the month, not a sum across weeks.
func firstAvailability(availabilities []models.Availability, userID uint, start, end time.Time) float64 {
	for _, a := range availabilities {
		if a.UserID != userID {
			continue
		}
		if !a.WeekStart.Before(start) && a.WeekStart.Before(end) {
			return a.DaysAvailable
		}
	}
	return 0
}

func sumTaskDays(tasks []models.Task, userID uint, start, end time.Time) (working, unbilled float64) {
	for _, t := range tasks {
		if t.AssignedUserID == nil || *t.AssignedUserID != userID || t.StartDate == nil {
			continue
		}
		if t.StartDate.Before(start) || !t.StartDate.Before(end) {
			continue
		}
		days := 0.0
		if t.WorkingDays != nil {
			days = *t.WorkingDays
		}
		working += days
		if t.DevisID == nil {
			unbilled += days
		}
	}
	return working, unbilled
}
