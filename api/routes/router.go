package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsherman999/LegoEater/api/controllers"
	"github.com/jsherman999/LegoEater/api/middleware"
	"github.com/jsherman999/LegoEater/internal/barcode"
	"github.com/jsherman999/LegoEater/internal/catalog"
	"github.com/jsherman999/LegoEater/internal/pricesync"
	"github.com/jsherman999/LegoEater/internal/valuation"
	"github.com/jsherman999/LegoEater/pkg/config"
	"github.com/jsherman999/LegoEater/pkg/logger"
)

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        controllers.Pinger
	Redis     controllers.Pinger
	Catalog   catalog.Service
	Barcode   barcode.Service
	Prices    pricesync.Service
	Valuation valuation.Service
	Metrics   prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, p.DB, p.Redis))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/lookup", func(r chi.Router) {
			r.Get("/set/{setNum}", controllers.LookupSet(p.Catalog, p.Logger))
			r.Get("/barcode/{code}", controllers.LookupBarcode(p.Barcode, p.Logger))
			r.Get("/search", controllers.SearchSets(p.Catalog, p.Logger))
		})

		r.Route("/prices", func(r chi.Router) {
			r.Post("/update", controllers.PriceUpdate(p.Prices, p.Logger))
			r.Get("/last-updated", controllers.PriceLastUpdated(p.Prices, p.Logger))
			r.Get("/{setNum}", controllers.PriceLatest(p.Prices, p.Logger))
			r.Get("/{setNum}/history", controllers.PriceHistory(p.Prices, p.Logger))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", controllers.ReportSummary(p.Valuation, p.Logger))
			r.Get("/by-owner", controllers.ReportByOwner(p.Valuation, p.Logger))
			r.Get("/by-theme", controllers.ReportByTheme(p.Valuation, p.Logger))
			r.Get("/top-sets", controllers.ReportTopSets(p.Valuation, p.Logger))
			r.Get("/movers", controllers.ReportMovers(p.Valuation, p.Logger))
			r.Get("/trend", controllers.ReportTrend(p.Valuation, p.Logger))
			r.Get("/recent", controllers.ReportRecent(p.Valuation, p.Logger))
		})
	})

	return r
}
