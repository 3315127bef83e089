package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the persisted principal row.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name         string    `gorm:"type:varchar(255)"`
	Plan         string    `gorm:"type:varchar(32);not null;default:free"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
