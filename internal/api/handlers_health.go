// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/reelmatch/internal/models"
)

// HealthLive handles GET /api/v1/health/live. It answers 200 while the
// process can serve HTTP, regardless of the catalog.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data: map[string]interface{}{
			"alive": true,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// HealthReady handles GET /api/v1/health/ready. It answers 200 once the
// catalog is loaded and 503 before that.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	health := h.healthStatus()
	if !health.CatalogLoaded {
		respondJSON(w, r, http.StatusServiceUnavailable, &models.APIResponse{
			Status: models.StatusError,
			Data:   health,
			Metadata: models.Metadata{
				Timestamp: time.Now().UTC(),
			},
			Error: &models.APIError{
				Code:    models.ErrCodeServiceUnavailable,
				Message: "Movie catalog is not loaded",
			},
		})
		return
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

func (h *Handler) healthStatus() models.HealthStatus {
	health := models.HealthStatus{
		Status:  "unavailable",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}

	if h.engine != nil {
		health.CatalogLoaded = true
		health.Movies = h.engine.Catalog().Len()
		health.Status = "healthy"
	}
	if cs, ok := h.posters.(cacheStatter); ok {
		health.PosterCache = cs.CacheStats().Size
	}
	if bs, ok := h.posters.(breakerStater); ok {
		health.Breaker = bs.BreakerState()
		if health.Breaker == "open" && health.CatalogLoaded {
			health.Status = "degraded"
		}
	}
	return health
}
