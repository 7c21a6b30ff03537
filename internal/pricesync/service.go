package pricesync

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jsherman999/LegoEater/pkg/bricklink"
	"github.com/jsherman999/LegoEater/pkg/config"
	"github.com/jsherman999/LegoEater/pkg/db/models"
	pkgerrors "github.com/jsherman999/LegoEater/pkg/errors"
	"github.com/jsherman999/LegoEater/pkg/logger"
	"go.uber.org/multierr"
)

// PriceGuideAPI is the signed provider surface the synchronizer pulls from.
type PriceGuideAPI interface {
	PriceGuide(ctx context.Context, baseSetNum string, condition bricklink.Condition) (*bricklink.Guide, error)
}

// Store is the persistence surface the synchronizer depends on.
type Store interface {
	DistinctInventorySetNums(ctx context.Context) ([]string, error)
	UpsertSnapshot(ctx context.Context, snapshot *models.PriceSnapshot) error
	HistoryBySetNum(ctx context.Context, setNum string) ([]models.PriceSnapshot, error)
	LatestBySetNum(ctx context.Context, setNum string) (*models.PriceSnapshot, error)
	SetLastSync(ctx context.Context, at time.Time) error
	LastSync(ctx context.Context) (*time.Time, error)
}

// Failure records one set that could not be synced.
type Failure struct {
	SetNum  string `json:"set_num"`
	Message string `json:"message"`
}

// Summary is the outcome of one sync run.
type Summary struct {
	Updated  int       `json:"updated"`
	Failed   int       `json:"failed"`
	Failures []Failure `json:"failures"`
}

// Service synchronizes market prices for the tracked inventory.
type Service interface {
	// Sync refreshes snapshots for the given set numbers, or for every
	// distinct set in inventory when none are given.
	Sync(ctx context.Context, setNums []string) (*Summary, error)
	LastSync(ctx context.Context) (*time.Time, error)
	History(ctx context.Context, setNum string) ([]models.PriceSnapshot, error)
	Latest(ctx context.Context, setNum string) (*models.PriceSnapshot, error)
}

type service struct {
	store  Store
	api    PriceGuideAPI
	logger *logger.Logger
	delay  time.Duration
	now    func() time.Time
}

// NewService wires a price synchronizer. The configured item delay spaces out
// provider calls between inventory items.
func NewService(store Store, api PriceGuideAPI, cfg config.SyncConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "price store is required")
	}
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "price guide api is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger is required")
	}
	return &service{
		store:  store,
		api:    api,
		logger: logg,
		delay:  cfg.ItemDelay,
		now:    time.Now,
	}, nil
}

// Sync walks the working set sequentially, spacing provider calls by the
// configured delay. One item's failure is recorded and the batch continues.
// Cancelling the context stops the walk and returns the partial summary with
// the context error.
func (s *service) Sync(ctx context.Context, setNums []string) (*Summary, error) {
	working := setNums
	if len(working) == 0 {
		var err error
		working, err = s.store.DistinctInventorySetNums(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "scanning inventory set numbers")
		}
	}

	summary := &Summary{Failures: []Failure{}}
	for i, setNum := range working {
		if i > 0 {
			if err := sleepCtx(ctx, s.delay); err != nil {
				return summary, err
			}
		}
		itemCtx := s.logger.WithSetNum(ctx, setNum)
		if err := s.syncOne(itemCtx, setNum); err != nil {
			s.logger.Warn(itemCtx, "price sync failed for set")
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{SetNum: setNum, Message: err.Error()})
			continue
		}
		summary.Updated++
	}

	if err := s.store.SetLastSync(ctx, s.now()); err != nil {
		s.logger.Error(ctx, "failed to record last sync marker", err)
	}
	return summary, nil
}

// syncOne fetches both condition guides in parallel, merges them, and upserts
// the day's snapshot. Neither condition reporting data yields a null snapshot
// rather than an error.
func (s *service) syncOne(ctx context.Context, setNum string) error {
	baseSetNum := strings.SplitN(setNum, "-", 2)[0]

	var (
		wg        sync.WaitGroup
		newGuide  *bricklink.Guide
		usedGuide *bricklink.Guide
		newErr    error
		usedErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		newGuide, newErr = s.api.PriceGuide(ctx, baseSetNum, bricklink.ConditionNew)
	}()
	go func() {
		defer wg.Done()
		usedGuide, usedErr = s.api.PriceGuide(ctx, baseSetNum, bricklink.ConditionUsed)
	}()
	wg.Wait()
	if err := multierr.Combine(newErr, usedErr); err != nil {
		return err
	}

	avg, minPrice, maxPrice, quantity := mergeGuides(newGuide, usedGuide)

	return s.store.UpsertSnapshot(ctx, &models.PriceSnapshot{
		SetNum:        setNum,
		Date:          s.now().UTC().Format("2006-01-02"),
		Source:        bricklink.Source,
		AvgPrice:      avg,
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
		Currency:      "USD",
		TotalQuantity: quantity,
		FetchedAt:     s.now().UTC(),
	})
}

// mergeGuides folds the per-condition guides into one set of snapshot fields.
// The snapshot average divides by the number of conditions that returned a
// guide at all; a guide carrying neither average nor unit price contributes
// zero to the sum. Min, max, and quantity fold only over conditions that
// reported a value.
func mergeGuides(guides ...*bricklink.Guide) (avg, minPrice, maxPrice *float64, quantity *int) {
	var avgSum float64
	var reported int
	for _, guide := range guides {
		if guide == nil {
			continue
		}
		reported++
		if v := firstNonNil(guide.AvgPrice, guide.UnitPrice); v != nil {
			avgSum += *v
		}
		if guide.MinPrice != nil && (minPrice == nil || *guide.MinPrice < *minPrice) {
			minPrice = ptr(*guide.MinPrice)
		}
		if guide.MaxPrice != nil && (maxPrice == nil || *guide.MaxPrice > *maxPrice) {
			maxPrice = ptr(*guide.MaxPrice)
		}
		if guide.TotalQuantity != nil {
			if quantity == nil {
				quantity = ptr(0)
			}
			*quantity += *guide.TotalQuantity
		}
	}
	if reported > 0 {
		avg = ptr(avgSum / float64(reported))
	}
	return avg, minPrice, maxPrice, quantity
}

func firstNonNil(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *service) LastSync(ctx context.Context) (*time.Time, error) {
	return s.store.LastSync(ctx)
}

func (s *service) History(ctx context.Context, setNum string) ([]models.PriceSnapshot, error) {
	return s.store.HistoryBySetNum(ctx, setNum)
}

func (s *service) Latest(ctx context.Context, setNum string) (*models.PriceSnapshot, error) {
	return s.store.LatestBySetNum(ctx, setNum)
}
