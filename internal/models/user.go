package models

import "time"

// Identity records mirrored from the external identity provider.
// Role is not stored here: it lives in the provider's custom:role
// attribute and in the verified token claims.
type User struct {
	UserID            uint    `gorm:"primaryKey" json:"userId"`
	CognitoID         string  `gorm:"unique;not null;index" json:"cognitoId"`
	Username          string  `gorm:"unique;not null" json:"username"`
	Email             string  `gorm:"index" json:"email"`
	PhoneNumber       string  `json:"phoneNumber"`
	Profile           *string `json:"profile"`
	ProfilePictureURL string  `gorm:"default:'i1.jpg'" json:"profilePictureUrl"`
	TeamID            *uint   `json:"teamId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Manager struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CognitoID   string `gorm:"unique;not null;index" json:"cognitoId"`
	Email       string `gorm:"index" json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
