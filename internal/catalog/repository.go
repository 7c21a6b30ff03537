package catalog

import (
	"context"
	"errors"

	"github.com/jsherman999/LegoEater/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists cached catalog records.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindBySetNum loads a cached record; a miss returns (nil, nil).
func (r *Repository) FindBySetNum(ctx context.Context, setNum string) (*models.CatalogSet, error) {
	var set models.CatalogSet
	err := r.db.WithContext(ctx).First(&set, "set_num = ?", setNum).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// Upsert writes the full record, replacing every enrichable field on conflict
// so a refresh never leaves a partially updated row.
func (r *Repository) Upsert(ctx context.Context, set *models.CatalogSet) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "set_num"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "year", "theme_name", "theme_id",
				"num_parts", "set_img_url", "last_modified_dt", "fetched_at",
			}),
		}).
		Create(set).Error
}
