package valuation

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jsherman999/LegoEater/pkg/db/models"
	pkgerrors "github.com/jsherman999/LegoEater/pkg/errors"
	"github.com/jsherman999/LegoEater/pkg/logger"
)

// Store is the read-only data surface the reports compute over.
type Store interface {
	Entries(ctx context.Context) ([]models.InventoryEntry, error)
	OwnerNames(ctx context.Context) (map[uuid.UUID]string, error)
	CatalogMeta(ctx context.Context, setNums []string) (map[string]CatalogMeta, error)
	SnapshotsBySet(ctx context.Context, setNums []string) (map[string][]models.PriceSnapshot, error)
	RecentEntries(ctx context.Context, limit int) ([]models.InventoryEntry, error)
}

// Service produces the valuation and trend reports.
type Service interface {
	Summary(ctx context.Context) (*SummaryReport, error)
	ByOwner(ctx context.Context) ([]GroupReport, error)
	ByTheme(ctx context.Context) ([]GroupReport, error)
	TopSets(ctx context.Context, limit int) ([]TopEntry, error)
	Movers(ctx context.Context, days, limit int) ([]Mover, error)
	Trend(ctx context.Context, days int) ([]TrendPoint, error)
	Recent(ctx context.Context, limit int) ([]RecentEntry, error)
}

type service struct {
	store  Store
	logger *logger.Logger
	now    func() time.Time
}

func NewService(store Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "valuation store is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger is required")
	}
	return &service{store: store, logger: logg, now: time.Now}, nil
}

// load pulls the inventory plus every record the reports reference into one
// in-memory dataset, so each report computes over a consistent view.
func (s *service) load(ctx context.Context) (*dataset, error) {
	entries, err := s.store.Entries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory")
	}

	seen := map[string]struct{}{}
	setNums := []string{}
	for _, entry := range entries {
		if _, ok := seen[entry.SetNum]; !ok {
			seen[entry.SetNum] = struct{}{}
			setNums = append(setNums, entry.SetNum)
		}
	}
	sort.Strings(setNums)

	owners, err := s.store.OwnerNames(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading owners")
	}
	catalog, err := s.store.CatalogMeta(ctx, setNums)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading catalog metadata")
	}
	snapshots, err := s.store.SnapshotsBySet(ctx, setNums)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading price history")
	}

	return &dataset{
		entries:   entries,
		owners:    owners,
		catalog:   catalog,
		snapshots: snapshots,
	}, nil
}

func (s *service) Summary(ctx context.Context) (*SummaryReport, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return computeSummary(data), nil
}

func (s *service) ByOwner(ctx context.Context) ([]GroupReport, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return computeGrouped(data, data.ownerGroup), nil
}

func (s *service) ByTheme(ctx context.Context) ([]GroupReport, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return computeGrouped(data, data.themeGroup), nil
}

func (s *service) TopSets(ctx context.Context, limit int) ([]TopEntry, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return computeTopSets(data, limit), nil
}

func (s *service) Movers(ctx context.Context, days, limit int) ([]Mover, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return computeMovers(data, s.now(), days, limit), nil
}

// Recent lists the newest inventory additions with their catalog names.
func (s *service) Recent(ctx context.Context, limit int) ([]RecentEntry, error) {
	entries, err := s.store.RecentEntries(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading recent inventory")
	}

	setNums := make([]string, 0, len(entries))
	seen := map[string]struct{}{}
	for _, entry := range entries {
		if _, ok := seen[entry.SetNum]; !ok {
			seen[entry.SetNum] = struct{}{}
			setNums = append(setNums, entry.SetNum)
		}
	}
	catalog, err := s.store.CatalogMeta(ctx, setNums)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading catalog metadata")
	}

	recent := make([]RecentEntry, 0, len(entries))
	for _, entry := range entries {
		name := entry.SetNum
		if meta, ok := catalog[entry.SetNum]; ok {
			name = meta.Name
		}
		recent = append(recent, RecentEntry{
			SetNum:        entry.SetNum,
			Name:          name,
			Quantity:      entry.Quantity,
			PurchasePrice: entry.PurchasePrice,
			DateAcquired:  entry.DateAcquired,
			AddedAt:       entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return recent, nil
}

func (s *service) Trend(ctx context.Context, days int) ([]TrendPoint, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return computeTrend(data, s.now(), days), nil
}
