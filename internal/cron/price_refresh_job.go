package cron

import (
	"context"
	"fmt"

	"github.com/jsherman999/LegoEater/internal/pricesync"
	"github.com/jsherman999/LegoEater/pkg/logger"
	"github.com/jsherman999/LegoEater/pkg/metrics"
)

const priceRefreshJobName = "price_refresh"

// priceSyncer is the slice of the sync service this job drives.
type priceSyncer interface {
	Sync(ctx context.Context, setNums []string) (*pricesync.Summary, error)
}

// PriceRefreshJob refreshes market prices for the whole inventory.
type PriceRefreshJob struct {
	sync    priceSyncer
	logg    *logger.Logger
	metrics *metrics.SyncJobMetrics
}

func NewPriceRefreshJob(sync priceSyncer, logg *logger.Logger, m *metrics.SyncJobMetrics) (*PriceRefreshJob, error) {
	if sync == nil {
		return nil, fmt.Errorf("price sync service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &PriceRefreshJob{sync: sync, logg: logg, metrics: m}, nil
}

func (j *PriceRefreshJob) Name() string { return priceRefreshJobName }

// Run syncs every distinct inventory set. Per-item failures are already
// isolated inside the sync service; the job only fails when the batch itself
// cannot run.
func (j *PriceRefreshJob) Run(ctx context.Context) error {
	summary, err := j.sync.Sync(ctx, nil)
	if summary != nil {
		j.metrics.AddItems(priceRefreshJobName, "updated", summary.Updated)
		j.metrics.AddItems(priceRefreshJobName, "failed", summary.Failed)
	}
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		ctx = j.logg.WithFields(ctx, map[string]any{
			"updated": summary.Updated,
			"failed":  summary.Failed,
		})
		j.logg.Warn(ctx, "price refresh finished with failures")
		return nil
	}
	ctx = j.logg.WithField(ctx, "updated", summary.Updated)
	j.logg.Info(ctx, "price refresh finished")
	return nil
}
