package models

import "time"

// Network is a supported network row, keyed by CAIP-2 id.
type Network struct {
	ID        string `gorm:"type:varchar(64);primaryKey"`
	Name      string `gorm:"type:varchar(255);not null"`
	Symbol    string `gorm:"type:varchar(32)"`
	IsDefault bool   `gorm:"not null;default:false"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
