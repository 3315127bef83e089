package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Wallet is the persisted wallet row. The composite unique index enforces
// the no-duplicate-triple invariant; the one-primary-per-owner invariant is
// a partial unique index on (user_id) where is_primary, created in Migrate
// because gorm tags cannot express partial indexes portably.
type Wallet struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:uniq_wallets_owner_addr_network,priority:1"`
	Address           string      `gorm:"type:varchar(255);not null"`
	AddressNormalized string      `gorm:"type:varchar(255);not null;uniqueIndex:uniq_wallets_owner_addr_network,priority:2"`
	NetworkID         string      `gorm:"type:varchar(64);not null;uniqueIndex:uniq_wallets_owner_addr_network,priority:3"`
	IsPrimary         bool        `gorm:"not null;default:false"`
	Label             null.String `gorm:"type:varchar(255)"`
	NetworkMetadata   []byte      `gorm:"type:jsonb"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
