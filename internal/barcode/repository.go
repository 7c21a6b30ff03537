package barcode

import (
	"context"
	"errors"

	"github.com/jsherman999/LegoEater/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists barcode to set-number mappings.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByBarcode loads a cached mapping; a miss returns (nil, nil).
func (r *Repository) FindByBarcode(ctx context.Context, code string) (*models.BarcodeMapping, error) {
	var mapping models.BarcodeMapping
	err := r.db.WithContext(ctx).First(&mapping, "barcode = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// Upsert writes the mapping, refreshing the target set and timestamp when the
// barcode was already mapped.
func (r *Repository) Upsert(ctx context.Context, mapping *models.BarcodeMapping) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barcode"}},
			DoUpdates: clause.AssignmentColumns([]string{"set_num", "source", "fetched_at"}),
		}).
		Create(mapping).Error
}
