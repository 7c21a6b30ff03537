package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsherman999/LegoEater/internal/valuation"
)

type stubValuationService struct {
	summary *valuation.SummaryReport
	groups  []valuation.GroupReport
	top     []valuation.TopEntry
	movers  []valuation.Mover
	trend   []valuation.TrendPoint
	recent  []valuation.RecentEntry
	err     error

	moversDays  int
	moversLimit int
}

func (s *stubValuationService) Summary(context.Context) (*valuation.SummaryReport, error) {
	return s.summary, s.err
}

func (s *stubValuationService) ByOwner(context.Context) ([]valuation.GroupReport, error) {
	return s.groups, s.err
}

func (s *stubValuationService) ByTheme(context.Context) ([]valuation.GroupReport, error) {
	return s.groups, s.err
}

func (s *stubValuationService) TopSets(_ context.Context, limit int) ([]valuation.TopEntry, error) {
	return s.top, s.err
}

func (s *stubValuationService) Movers(_ context.Context, days, limit int) ([]valuation.Mover, error) {
	s.moversDays = days
	s.moversLimit = limit
	return s.movers, s.err
}

func (s *stubValuationService) Trend(context.Context, int) ([]valuation.TrendPoint, error) {
	return s.trend, s.err
}

func (s *stubValuationService) Recent(context.Context, int) ([]valuation.RecentEntry, error) {
	return s.recent, s.err
}

func TestReportSummary(t *testing.T) {
	svc := &stubValuationService{summary: &valuation.SummaryReport{
		TotalEntries: 1, TotalQuantity: 3, TotalInvested: 60, TotalValue: 75, GainLoss: 15, ROIPercent: 25,
	}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary", nil)
	rec := httptest.NewRecorder()
	ReportSummary(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Data valuation.SummaryReport `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.ROIPercent != 25 {
		t.Fatalf("roi = %v, want 25", body.Data.ROIPercent)
	}
}

func TestReportMoversQueryDefaultsAndBounds(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		svc := &stubValuationService{movers: []valuation.Mover{}}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/movers", nil)
		rec := httptest.NewRecorder()
		ReportMovers(svc, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if svc.moversDays != 30 || svc.moversLimit != 10 {
			t.Fatalf("days/limit = %d/%d, want 30/10", svc.moversDays, svc.moversLimit)
		}
	})

	t.Run("out of range days rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/movers?days=5000", nil)
		rec := httptest.NewRecorder()
		ReportMovers(&stubValuationService{}, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("non-numeric limit rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/movers?limit=abc", nil)
		rec := httptest.NewRecorder()
		ReportMovers(&stubValuationService{}, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestReportRecent(t *testing.T) {
	svc := &stubValuationService{recent: []valuation.RecentEntry{
		{SetNum: "75192-1", Name: "Millennium Falcon", Quantity: 1},
	}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/recent?limit=5", nil)
	rec := httptest.NewRecorder()
	ReportRecent(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Data struct {
			Entries []valuation.RecentEntry `json:"entries"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Entries) != 1 {
		t.Fatalf("entries = %+v", body.Data.Entries)
	}
}
