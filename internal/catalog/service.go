package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jsherman999/LegoEater/pkg/db/models"
	pkgerrors "github.com/jsherman999/LegoEater/pkg/errors"
	"github.com/jsherman999/LegoEater/pkg/logger"
	"github.com/jsherman999/LegoEater/pkg/rebrickable"
)

// CatalogAPI is the remote catalog surface the resolver depends on.
type CatalogAPI interface {
	GetSet(ctx context.Context, setNum string) (*rebrickable.Set, error)
	GetThemeName(ctx context.Context, themeID int) (string, error)
	SearchSets(ctx context.Context, query string) ([]rebrickable.Set, error)
}

// Store is the cache surface the resolver reads and writes through.
type Store interface {
	FindBySetNum(ctx context.Context, setNum string) (*models.CatalogSet, error)
	Upsert(ctx context.Context, set *models.CatalogSet) error
}

// Service resolves set numbers against the local cache and the remote catalog.
type Service interface {
	Resolve(ctx context.Context, setNum string) (*ResolvedSet, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

type service struct {
	store  Store
	api    CatalogAPI
	logger *logger.Logger
	now    func() time.Time
}

// NewService wires a resolver over the given cache store and catalog API.
func NewService(store Store, api CatalogAPI, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog store is required")
	}
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog api is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger is required")
	}
	return &service{
		store:  store,
		api:    api,
		logger: logg,
		now:    time.Now,
	}, nil
}

// Resolve returns the catalog record for a set number, trying the cache first
// and falling back to the remote catalog. Inputs without a variant suffix are
// also tried with "-1" appended, since the catalog keys base sets that way.
// Remote hits are written through the cache and re-read so the caller always
// sees the persisted row.
func (s *service) Resolve(ctx context.Context, setNum string) (*ResolvedSet, error) {
	input := strings.TrimSpace(setNum)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "set number is required")
	}
	ctx = s.logger.WithSetNum(ctx, input)

	candidates := []string{input}
	if !strings.Contains(input, "-") {
		candidates = append(candidates, input+"-1")
	}

	for _, candidate := range candidates {
		cached, err := s.store.FindBySetNum(ctx, candidate)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading catalog cache")
		}
		if cached != nil {
			return &ResolvedSet{Set: toSetDTO(cached), Origin: OriginCache}, nil
		}
	}

	for _, candidate := range candidates {
		remote, err := s.api.GetSet(ctx, candidate)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				continue
			}
			return nil, err
		}
		return s.cacheRemote(ctx, remote)
	}

	return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("set not found: %s", input))
}

// cacheRemote enriches the remote record with its theme name, writes it
// through the cache under the canonical set number, and re-reads the row.
// Theme lookup is best effort: a failure is logged and the record is cached
// without a theme name.
func (s *service) cacheRemote(ctx context.Context, remote *rebrickable.Set) (*ResolvedSet, error) {
	record := &models.CatalogSet{
		SetNum:         remote.SetNum,
		Name:           remote.Name,
		Year:           remote.Year,
		ThemeID:        remote.ThemeID,
		NumParts:       remote.NumParts,
		SetImgURL:      remote.SetImgURL,
		LastModifiedDt: remote.LastModifiedDt,
		FetchedAt:      s.now().UTC(),
	}

	if remote.ThemeID != nil {
		name, err := s.api.GetThemeName(ctx, *remote.ThemeID)
		if err != nil {
			s.logger.Warn(ctx, "theme lookup failed, caching set without theme name")
		} else if name != "" {
			record.ThemeName = &name
		}
	}

	if err := s.store.Upsert(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "caching catalog record")
	}

	stored, err := s.store.FindBySetNum(ctx, record.SetNum)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "re-reading cached catalog record")
	}
	if stored == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog record missing after write")
	}
	return &ResolvedSet{Set: toSetDTO(stored), Origin: OriginRemote}, nil
}

// Search runs a free-text catalog search against the remote provider.
// A blank query returns an empty result set without a remote call.
func (s *service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []SearchResult{}, nil
	}

	sets, err := s.api.SearchSets(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(sets))
	for _, set := range sets {
		results = append(results, SearchResult{
			SetNum:    set.SetNum,
			Name:      set.Name,
			Year:      set.Year,
			SetImgURL: set.SetImgURL,
		})
	}
	return results, nil
}
