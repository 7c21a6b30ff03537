package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jsherman999/LegoEater/internal/barcode"
	"github.com/jsherman999/LegoEater/internal/catalog"
	pkgerrors "github.com/jsherman999/LegoEater/pkg/errors"
	"github.com/jsherman999/LegoEater/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type stubCatalogService struct {
	resolved *catalog.ResolvedSet
	results  []catalog.SearchResult
	err      error
}

func (s *stubCatalogService) Resolve(context.Context, string) (*catalog.ResolvedSet, error) {
	return s.resolved, s.err
}

func (s *stubCatalogService) Search(context.Context, string) ([]catalog.SearchResult, error) {
	return s.results, s.err
}

type stubBarcodeService struct {
	resolved *barcode.ResolvedBarcode
	err      error
}

func (s *stubBarcodeService) Resolve(context.Context, string) (*barcode.ResolvedBarcode, error) {
	return s.resolved, s.err
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	return req.WithContext(ctx)
}

func TestLookupSet(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &stubCatalogService{resolved: &catalog.ResolvedSet{
			Set:    catalog.SetDTO{SetNum: "75192-1", Name: "Millennium Falcon"},
			Origin: catalog.OriginCache,
		}}
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/lookup/set/75192", nil), "setNum", "75192")
		rec := httptest.NewRecorder()
		LookupSet(svc, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var body struct {
			Data catalog.ResolvedSet `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Data.Set.SetNum != "75192-1" || body.Data.Origin != catalog.OriginCache {
			t.Fatalf("body = %+v", body.Data)
		}
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "set not found: 99999")}
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/lookup/set/99999", nil), "setNum", "99999")
		rec := httptest.NewRecorder()
		LookupSet(svc, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("remote failure maps to 502", func(t *testing.T) {
		svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeRemote, "catalog request failed (503)")}
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/lookup/set/75192", nil), "setNum", "75192")
		rec := httptest.NewRecorder()
		LookupSet(svc, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", rec.Code)
		}
	})

	t.Run("blank set number", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/lookup/set/%20", nil), "setNum", " ")
		rec := httptest.NewRecorder()
		LookupSet(&stubCatalogService{}, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestLookupBarcode(t *testing.T) {
	svc := &stubBarcodeService{resolved: &barcode.ResolvedBarcode{
		Set:           catalog.SetDTO{SetNum: "75192-1"},
		Origin:        catalog.OriginRemote,
		BarcodeOrigin: catalog.OriginRemote,
	}}
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/lookup/barcode/012345", nil), "code", "012345")
	rec := httptest.NewRecorder()
	LookupBarcode(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Data barcode.ResolvedBarcode `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.BarcodeOrigin != catalog.OriginRemote {
		t.Fatalf("barcode_origin = %q", body.Data.BarcodeOrigin)
	}
}

func TestSearchSets(t *testing.T) {
	svc := &stubCatalogService{results: []catalog.SearchResult{{SetNum: "75192-1", Name: "Millennium Falcon"}}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lookup/search?q=falcon", nil)
	rec := httptest.NewRecorder()
	SearchSets(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Data struct {
			Results []catalog.SearchResult `json:"results"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Results) != 1 {
		t.Fatalf("results = %+v", body.Data.Results)
	}
}
