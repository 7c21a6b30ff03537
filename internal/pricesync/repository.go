package pricesync

import (
	"context"
	"errors"
	"time"

	"github.com/jsherman999/LegoEater/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const lastSyncKey = "last_price_update"

// Repository persists price snapshots and the global sync marker.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DistinctInventorySetNums lists every set number currently present in
// inventory, ascending.
func (r *Repository) DistinctInventorySetNums(ctx context.Context) ([]string, error) {
	var setNums []string
	err := r.db.WithContext(ctx).
		Model(&models.InventoryEntry{}).
		Distinct("set_num").
		Order("set_num ASC").
		Pluck("set_num", &setNums).Error
	if err != nil {
		return nil, err
	}
	return setNums, nil
}

// UpsertSnapshot writes a snapshot keyed by (set_num, date, source),
// overwriting the numeric fields on conflict so same-day runs are idempotent.
func (r *Repository) UpsertSnapshot(ctx context.Context, snapshot *models.PriceSnapshot) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "set_num"}, {Name: "date"}, {Name: "source"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"avg_price", "min_price", "max_price", "currency", "total_quantity", "fetched_at",
			}),
		}).
		Create(snapshot).Error
}

// HistoryBySetNum returns every snapshot for a set in chronological order.
func (r *Repository) HistoryBySetNum(ctx context.Context, setNum string) ([]models.PriceSnapshot, error) {
	var snapshots []models.PriceSnapshot
	err := r.db.WithContext(ctx).
		Where("set_num = ?", setNum).
		Order("date ASC, id ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// LatestBySetNum returns the newest snapshot for a set, breaking same-date
// ties by insertion order. A set with no snapshots returns (nil, nil).
func (r *Repository) LatestBySetNum(ctx context.Context, setNum string) (*models.PriceSnapshot, error) {
	var snapshot models.PriceSnapshot
	err := r.db.WithContext(ctx).
		Where("set_num = ?", setNum).
		Order("date DESC, id DESC").
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// SetLastSync records the global sync marker.
func (r *Repository) SetLastSync(ctx context.Context, at time.Time) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&models.AppConfig{
			Key:       lastSyncKey,
			Value:     at.UTC().Format(time.RFC3339),
			UpdatedAt: at.UTC(),
		}).Error
}

// LastSync reads the global sync marker; (nil, nil) when no sync has run yet.
func (r *Repository) LastSync(ctx context.Context) (*time.Time, error) {
	var row models.AppConfig
	err := r.db.WithContext(ctx).First(&row, "key = ?", lastSyncKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	at, err := time.Parse(time.RFC3339, row.Value)
	if err != nil {
		return nil, err
	}
	return &at, nil
}
