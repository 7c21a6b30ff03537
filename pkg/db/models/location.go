package models

import (
	"time"

	"github.com/google/uuid"
)

// Location is a physical storage place for inventory entries.
type Location struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null;unique"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Location) TableName() string { return "locations" }
