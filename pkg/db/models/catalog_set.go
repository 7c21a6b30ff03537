package models

import "time"

// CatalogSet is the cached canonical catalog record for a set number.
// Rows are written through on remote resolution and refreshed in full; the
// primary key is the canonical set number reported by the catalog provider.
type CatalogSet struct {
	SetNum         string    `gorm:"column:set_num;primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	Year           *int      `gorm:"column:year"`
	ThemeName      *string   `gorm:"column:theme_name"`
	ThemeID        *int      `gorm:"column:theme_id"`
	NumParts       *int      `gorm:"column:num_parts"`
	SetImgURL      *string   `gorm:"column:set_img_url"`
	LastModifiedDt *string   `gorm:"column:last_modified_dt"`
	FetchedAt      time.Time `gorm:"column:fetched_at;not null"`
}

func (CatalogSet) TableName() string { return "set_catalog" }
