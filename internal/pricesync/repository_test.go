package pricesync

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jsherman999/LegoEater/pkg/db/models"
)

func setupPriceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	priceHistory := `
CREATE TABLE IF NOT EXISTS price_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  set_num TEXT NOT NULL,
  date TEXT NOT NULL,
  source TEXT NOT NULL,
  avg_price REAL,
  min_price REAL,
  max_price REAL,
  currency TEXT NOT NULL DEFAULT 'USD',
  total_quantity INTEGER,
  fetched_at DATETIME NOT NULL,
  UNIQUE (set_num, date, source)
);`
	inventory := `
CREATE TABLE IF NOT EXISTS inventory (
  id TEXT PRIMARY KEY,
  set_num TEXT NOT NULL,
  owner_id TEXT,
  location_id TEXT,
  condition TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  purchase_price REAL,
  date_acquired TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	appConfig := `
CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL
);`
	require.NoError(t, db.Exec(priceHistory).Error)
	require.NoError(t, db.Exec(inventory).Error)
	require.NoError(t, db.Exec(appConfig).Error)
	return db
}

func createInventoryEntry(t *testing.T, db *gorm.DB, setNum string) {
	t.Helper()

	entry := &models.InventoryEntry{
		ID:        uuid.New(),
		SetNum:    setNum,
		Condition: "used",
		Quantity:  1,
	}
	require.NoError(t, db.Create(entry).Error)
}

func TestRepositoryDistinctInventorySetNums(t *testing.T) {
	db := setupPriceTestDB(t)
	repo := NewRepository(db)

	createInventoryEntry(t, db, "75192-1")
	createInventoryEntry(t, db, "10030-1")
	createInventoryEntry(t, db, "75192-1")

	setNums, err := repo.DistinctInventorySetNums(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"10030-1", "75192-1"}, setNums)
}

func TestRepositoryUpsertSnapshotOverwritesSameDay(t *testing.T) {
	db := setupPriceTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	avg1, avg2 := 100.0, 110.0
	first := &models.PriceSnapshot{
		SetNum: "75192-1", Date: "2025-09-15", Source: "bricklink",
		AvgPrice: &avg1, Currency: "USD", FetchedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.UpsertSnapshot(ctx, first))

	second := &models.PriceSnapshot{
		SetNum: "75192-1", Date: "2025-09-15", Source: "bricklink",
		AvgPrice: &avg2, Currency: "USD", FetchedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.UpsertSnapshot(ctx, second))

	history, err := repo.HistoryBySetNum(ctx, "75192-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].AvgPrice)
	require.Equal(t, 110.0, *history[0].AvgPrice)
}

func TestRepositoryLatestBySetNum(t *testing.T) {
	db := setupPriceTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	missing, err := repo.LatestBySetNum(ctx, "75192-1")
	require.NoError(t, err)
	require.Nil(t, missing)

	for _, row := range []struct {
		date string
		avg  float64
	}{
		{"2025-09-13", 90},
		{"2025-09-15", 120},
		{"2025-09-14", 100},
	} {
		avg := row.avg
		require.NoError(t, repo.UpsertSnapshot(ctx, &models.PriceSnapshot{
			SetNum: "75192-1", Date: row.date, Source: "bricklink",
			AvgPrice: &avg, Currency: "USD", FetchedAt: time.Now().UTC(),
		}))
	}

	latest, err := repo.LatestBySetNum(ctx, "75192-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Equal(t, "2025-09-15", latest.Date)
	require.NotNil(t, latest.AvgPrice)
	require.Equal(t, 120.0, *latest.AvgPrice)

	history, err := repo.HistoryBySetNum(ctx, "75192-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, "2025-09-13", history[0].Date)
	require.Equal(t, "2025-09-15", history[2].Date)
}

func TestRepositoryLastSyncRoundTrip(t *testing.T) {
	db := setupPriceTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	unset, err := repo.LastSync(ctx)
	require.NoError(t, err)
	require.Nil(t, unset)

	first := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetLastSync(ctx, first))

	second := time.Date(2025, 9, 16, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetLastSync(ctx, second))

	got, err := repo.LastSync(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.Equal(second), "marker = %v, want %v", got, second)

	var rows int64
	require.NoError(t, db.Model(&models.AppConfig{}).Count(&rows).Error)
	require.EqualValues(t, 1, rows)
}
