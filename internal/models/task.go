package models

import "time"

// Task is a unit of work inside a project. A task with no devis link counts
// as "unbilled" in the monthly production aggregation.
type Task struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Title          string     `gorm:"not null" json:"title"`
	Description    *string    `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	Tags           *string    `json:"tags"`
	StartDate      *time.Time `gorm:"index" json:"startDate"`
	DueDate        *time.Time `json:"dueDate"`
	WorkingDays    *float64   `json:"workingDays"`
	ProjectID      uint       `gorm:"not null;index" json:"projectId"`
	AuthorUserID   *uint      `gorm:"index" json:"authorUserId"`
	AssignedUserID *uint      `gorm:"index" json:"assignedUserId"`
	DevisID        *string    `gorm:"index" json:"devisId"`

	Author   *User  `gorm:"foreignKey:AuthorUserID" json:"author,omitempty"`
	Assignee *User  `gorm:"foreignKey:AssignedUserID" json:"assignee,omitempty"`
	Devis    *Devis `gorm:"foreignKey:DevisID" json:"devis,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Project struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`

	Tasks []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
