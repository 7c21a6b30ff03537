package models

import "time"

// PriceSnapshot is one dated, sourced market price observation for a set.
// The surrogate id preserves insertion order; same-date rows are tie-broken
// by the highest id. (set_num, date, source) is unique so re-running a sync
// for the same day overwrites instead of duplicating.
type PriceSnapshot struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SetNum        string    `gorm:"column:set_num;not null;uniqueIndex:uq_price_history_set_date_source,priority:1"`
	Date          string    `gorm:"column:date;not null;uniqueIndex:uq_price_history_set_date_source,priority:2"`
	Source        string    `gorm:"column:source;not null;uniqueIndex:uq_price_history_set_date_source,priority:3"`
	AvgPrice      *float64  `gorm:"column:avg_price"`
	MinPrice      *float64  `gorm:"column:min_price"`
	MaxPrice      *float64  `gorm:"column:max_price"`
	Currency      string    `gorm:"column:currency;not null;default:USD"`
	TotalQuantity *int      `gorm:"column:total_quantity"`
	FetchedAt     time.Time `gorm:"column:fetched_at;not null"`
}

func (PriceSnapshot) TableName() string { return "price_history" }
