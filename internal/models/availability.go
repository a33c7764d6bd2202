package models

import "time"

// Availability is a user's declared capacity for one week. WeekStart is the
// Monday of the declared week; DaysAvailable feeds the denominator of the
// monthly production and occupation rates.
type Availability struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"userId"`
	WeekStart     time.Time `gorm:"not null;index" json:"weekStart"`
	DaysAvailable float64   `gorm:"not null" json:"daysAvailable"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
