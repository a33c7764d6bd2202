package models

import "time"

// MonthlyProductionRate is a derived row, one per (user, month). Recomputing
// a year overwrites the numeric fields in place (upsert semantics).
type MonthlyProductionRate struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	UserID         uint    `gorm:"not null;uniqueIndex:idx_user_month" json:"userId"`
	Month          string  `gorm:"not null;uniqueIndex:idx_user_month;size:7" json:"month"` // "YYYY-MM"
	AvailableDays  float64 `json:"availableDays"`
	WorkingDays    float64 `json:"workingDays"`
	UnbilledDays   float64 `json:"unbilledDays"`
	ProductionRate float64 `json:"productionRate"`
	OccupationRate float64 `json:"occupationRate"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
