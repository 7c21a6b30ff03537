package barcode

import (
	"context"
	"strings"
	"time"

	"github.com/jsherman999/LegoEater/internal/catalog"
	"github.com/jsherman999/LegoEater/pkg/db/models"
	pkgerrors "github.com/jsherman999/LegoEater/pkg/errors"
	"github.com/jsherman999/LegoEater/pkg/logger"
	"github.com/jsherman999/LegoEater/pkg/upcitemdb"
)

const mappingSource = "upcitemdb"

// LookupAPI is the remote barcode lookup surface the resolver depends on.
type LookupAPI interface {
	Lookup(ctx context.Context, code string) ([]upcitemdb.Item, error)
}

// Store is the barcode mapping cache.
type Store interface {
	FindByBarcode(ctx context.Context, code string) (*models.BarcodeMapping, error)
	Upsert(ctx context.Context, mapping *models.BarcodeMapping) error
}

// ResolvedBarcode pairs the resolved catalog record with where the barcode
// mapping itself came from.
type ResolvedBarcode struct {
	Set           catalog.SetDTO `json:"set"`
	Origin        catalog.Origin `json:"origin"`
	BarcodeOrigin catalog.Origin `json:"barcode_origin"`
}

// Service resolves scanned barcodes to catalog records.
type Service interface {
	Resolve(ctx context.Context, code string) (*ResolvedBarcode, error)
}

type service struct {
	store    Store
	api      LookupAPI
	catalogs catalog.Service
	logger   *logger.Logger
	now      func() time.Time
}

// NewService wires a barcode resolver over the mapping store, the lookup API
// and the catalog resolver it chains into.
func NewService(store Store, api LookupAPI, catalogs catalog.Service, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "barcode store is required")
	}
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "barcode lookup api is required")
	}
	if catalogs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog service is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger is required")
	}
	return &service{
		store:    store,
		api:      api,
		catalogs: catalogs,
		logger:   logg,
		now:      time.Now,
	}, nil
}

// Resolve maps a scanned barcode to a catalog record. A cached mapping
// delegates straight to the catalog resolver; a miss queries the lookup
// provider, scans candidate titles for an embedded set number, resolves it,
// and caches the barcode against the canonical set number that came back.
func (s *service) Resolve(ctx context.Context, code string) (*ResolvedBarcode, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "barcode is required")
	}
	ctx = s.logger.WithField(ctx, "barcode", trimmed)

	mapping, err := s.store.FindByBarcode(ctx, trimmed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading barcode cache")
	}
	if mapping != nil {
		resolved, err := s.catalogs.Resolve(ctx, mapping.SetNum)
		if err != nil {
			return nil, err
		}
		return &ResolvedBarcode{
			Set:           resolved.Set,
			Origin:        resolved.Origin,
			BarcodeOrigin: catalog.OriginCache,
		}, nil
	}

	items, err := s.api.Lookup(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	var candidate string
	for _, item := range items {
		if match := ExtractSetNum(item.Title); match != "" {
			candidate = match
			break
		}
	}
	if candidate == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no catalog item detected for this code")
	}

	resolved, err := s.catalogs.Resolve(ctx, candidate)
	if err != nil {
		return nil, err
	}

	// Cache against the canonical set number, not the raw title match.
	err = s.store.Upsert(ctx, &models.BarcodeMapping{
		Barcode:   trimmed,
		SetNum:    resolved.Set.SetNum,
		Source:    mappingSource,
		FetchedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "caching barcode mapping")
	}

	return &ResolvedBarcode{
		Set:           resolved.Set,
		Origin:        resolved.Origin,
		BarcodeOrigin: catalog.OriginRemote,
	}, nil
}
