package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jsherman999/LegoEater/api/responses"
	"github.com/jsherman999/LegoEater/api/validators"
	"github.com/jsherman999/LegoEater/internal/pricesync"
	"github.com/jsherman999/LegoEater/pkg/db/models"
	pkgerrors "github.com/jsherman999/LegoEater/pkg/errors"
	"github.com/jsherman999/LegoEater/pkg/logger"
)

// PriceSnapshotDTO is the wire shape for one snapshot row.
type PriceSnapshotDTO struct {
	SetNum        string   `json:"set_num"`
	Date          string   `json:"date"`
	Source        string   `json:"source"`
	AvgPrice      *float64 `json:"avg_price"`
	MinPrice      *float64 `json:"min_price"`
	MaxPrice      *float64 `json:"max_price"`
	Currency      string   `json:"currency"`
	TotalQuantity *int     `json:"total_quantity"`
	FetchedAt     string   `json:"fetched_at"`
}

func toSnapshotDTO(m *models.PriceSnapshot) PriceSnapshotDTO {
	return PriceSnapshotDTO{
		SetNum:        m.SetNum,
		Date:          m.Date,
		Source:        m.Source,
		AvgPrice:      m.AvgPrice,
		MinPrice:      m.MinPrice,
		MaxPrice:      m.MaxPrice,
		Currency:      m.Currency,
		TotalQuantity: m.TotalQuantity,
		FetchedAt:     m.FetchedAt.UTC().Format(time.RFC3339),
	}
}

// PriceLatest returns the newest snapshot for a set.
func PriceLatest(prices pricesync.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setNum := validators.SanitizeString(chi.URLParam(r, "setNum"), 32)
		if setNum == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "set number is required"))
			return
		}

		snapshot, err := prices.Latest(r.Context(), setNum)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if snapshot == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no price snapshot for set"))
			return
		}
		responses.WriteSuccess(w, toSnapshotDTO(snapshot))
	}
}

// PriceHistory returns the dated snapshot series for a set, optionally
// bounded to a trailing window of days.
func PriceHistory(prices pricesync.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setNum := validators.SanitizeString(chi.URLParam(r, "setNum"), 32)
		if setNum == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "set number is required"))
			return
		}
		days, err := validators.ParseQueryInt(r, "days", 0, 0, 3650)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := prices.History(r.Context(), setNum)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var windowStart string
		if days > 0 {
			windowStart = time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
		}
		snapshots := make([]PriceSnapshotDTO, 0, len(history))
		for i := range history {
			if windowStart != "" && history[i].Date < windowStart {
				continue
			}
			snapshots = append(snapshots, toSnapshotDTO(&history[i]))
		}
		responses.WriteSuccess(w, map[string]any{"snapshots": snapshots})
	}
}

// PriceUpdateBody selects which sets a manual sync covers; empty means the
// whole inventory.
type PriceUpdateBody struct {
	SetNum  string   `json:"set_num" validate:"omitempty,min=3,max=32"`
	SetNums []string `json:"set_nums" validate:"omitempty,dive,min=3,max=32"`
}

// PriceUpdate triggers a synchronous price sync run and returns its summary.
func PriceUpdate(prices pricesync.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var targets []string
		if r.ContentLength > 0 {
			var body PriceUpdateBody
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if body.SetNum != "" {
				targets = append(targets, body.SetNum)
			}
			targets = append(targets, body.SetNums...)
		}

		summary, err := prices.Sync(r.Context(), targets)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// PriceLastUpdated reads the global sync marker.
func PriceLastUpdated(prices pricesync.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		at, err := prices.LastSync(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var formatted *string
		if at != nil {
			v := at.UTC().Format(time.RFC3339)
			formatted = &v
		}
		responses.WriteSuccess(w, map[string]any{"last_price_update": formatted})
	}
}
