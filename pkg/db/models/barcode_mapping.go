package models

import "time"

// BarcodeMapping links a scanned barcode to a canonical set number.
// Many barcodes may point at the same set; each barcode maps to exactly one.
type BarcodeMapping struct {
	Barcode   string    `gorm:"column:barcode;primaryKey"`
	SetNum    string    `gorm:"column:set_num;not null"`
	Source    string    `gorm:"column:source;not null;default:upcitemdb"`
	FetchedAt time.Time `gorm:"column:fetched_at;not null"`
}

func (BarcodeMapping) TableName() string { return "barcode_map" }
