package controllers

import (
	"context"
	"net/http"

	"github.com/jsherman999/LegoEater/api/responses"
	"github.com/jsherman999/LegoEater/pkg/config"
	"github.com/jsherman999/LegoEater/pkg/logger"
)

const envHeader = "X-LegoEater-Env"

// Pinger is a connectivity check on a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the datastore and, when configured, redis. Any failed
// check degrades the response to 503 with per-check detail.
func HealthReady(cfg *config.Config, logg *logger.Logger, db Pinger, redisClient Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				logg.Error(r.Context(), "database health check failed", err)
				checks["database"] = "unavailable"
				healthy = false
			} else {
				checks["database"] = "ok"
			}
		}
		if redisClient != nil {
			if err := redisClient.Ping(r.Context()); err != nil {
				logg.Error(r.Context(), "redis health check failed", err)
				checks["redis"] = "unavailable"
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		status := "ready"
		httpStatus := http.StatusOK
		if !healthy {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, httpStatus, map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}
