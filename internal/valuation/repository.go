package valuation

import (
	"context"

	"github.com/google/uuid"
	"github.com/jsherman999/LegoEater/pkg/db/models"
	"gorm.io/gorm"
)

// CatalogMeta is the slice of the catalog the reports need.
type CatalogMeta struct {
	Name      string
	ThemeName *string
}

// Repository reads the inventory, owner, catalog and price-history data the
// valuation engine consumes. All access is read-only.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Entries(ctx context.Context) ([]models.InventoryEntry, error) {
	var entries []models.InventoryEntry
	if err := r.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Repository) OwnerNames(ctx context.Context) (map[uuid.UUID]string, error) {
	var members []models.FamilyMember
	if err := r.db.WithContext(ctx).Find(&members).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	return names, nil
}

func (r *Repository) CatalogMeta(ctx context.Context, setNums []string) (map[string]CatalogMeta, error) {
	if len(setNums) == 0 {
		return map[string]CatalogMeta{}, nil
	}
	var sets []models.CatalogSet
	err := r.db.WithContext(ctx).
		Where("set_num IN ?", setNums).
		Find(&sets).Error
	if err != nil {
		return nil, err
	}
	meta := make(map[string]CatalogMeta, len(sets))
	for _, set := range sets {
		meta[set.SetNum] = CatalogMeta{Name: set.Name, ThemeName: set.ThemeName}
	}
	return meta, nil
}

// RecentEntries returns the newest inventory rows, most recent first.
func (r *Repository) RecentEntries(ctx context.Context, limit int) ([]models.InventoryEntry, error) {
	var entries []models.InventoryEntry
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SnapshotsBySet loads the full snapshot history for the given sets, grouped
// by set number and ordered date then insertion id ascending, so the last
// element of each slice is the latest observation.
func (r *Repository) SnapshotsBySet(ctx context.Context, setNums []string) (map[string][]models.PriceSnapshot, error) {
	if len(setNums) == 0 {
		return map[string][]models.PriceSnapshot{}, nil
	}
	var snapshots []models.PriceSnapshot
	err := r.db.WithContext(ctx).
		Where("set_num IN ?", setNums).
		Order("set_num ASC, date ASC, id ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]models.PriceSnapshot)
	for _, snapshot := range snapshots {
		grouped[snapshot.SetNum] = append(grouped[snapshot.SetNum], snapshot)
	}
	return grouped, nil
}
