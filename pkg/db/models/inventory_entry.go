package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryEntry is an owned copy (or copies) of a catalog set.
// The valuation engine consumes these rows read-only.
type InventoryEntry struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	SetNum        string     `gorm:"column:set_num;not null;index"`
	OwnerID       *uuid.UUID `gorm:"column:owner_id;type:uuid;index"`
	LocationID    *uuid.UUID `gorm:"column:location_id;type:uuid;index"`
	Condition     string     `gorm:"column:condition;not null"`
	Quantity      int        `gorm:"column:quantity;not null;default:1"`
	PurchasePrice *float64   `gorm:"column:purchase_price"`
	DateAcquired  *string    `gorm:"column:date_acquired"`
	Notes         *string    `gorm:"column:notes"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (InventoryEntry) TableName() string { return "inventory" }
