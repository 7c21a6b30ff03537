package models

import "time"

// AppConfig is a single-row-per-key settings table; it holds the global
// last price sync marker among other process-wide values.
type AppConfig struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (AppConfig) TableName() string { return "app_config" }
