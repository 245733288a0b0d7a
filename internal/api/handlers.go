// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"math"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/reelmatch/internal/cache"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/models"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, conversions
//   - handlers_helpers.go: response and validation helpers
//   - handlers_health.go: liveness and readiness
//   - handlers_recommend.go: movies, recommend, posters
//   - handlers_stream.go: WebSocket recommendation stream
//   - handlers_page.go: HTML page
type Handler struct {
	engine    *recommend.Engine
	posters   recommend.PosterResolver
	config    *config.Config
	version   string
	startTime time.Time
}

// NewHandler creates the API handler.
//
// A nil engine means the catalog is not loaded: readiness reports 503 and
// the data endpoints answer SERVICE_UNAVAILABLE. A nil posters resolver
// serves every movie without a poster.
//
// Example:
//
//	handler := api.NewHandler(engine, resolver, cfg, version)
//	router := api.NewRouter(handler, cfg)
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(engine *recommend.Engine, posters recommend.PosterResolver, cfg *config.Config, version string) *Handler {
	if posters == nil {
		posters = recommend.NoPosters{}
	}
	return &Handler{
		engine:    engine,
		posters:   posters,
		config:    cfg,
		version:   version,
		startTime: time.Now(),
	}
}

// requireEngine writes SERVICE_UNAVAILABLE and returns nil when the catalog
// is not loaded.
func (h *Handler) requireEngine(w http.ResponseWriter, r *http.Request) *recommend.Engine {
	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable, "Movie catalog is not loaded", nil)
		return nil
	}
	return h.engine
}

// cacheStatter and breakerStater are implemented by tmdb.Resolver.
type cacheStatter interface {
	CacheStats() cache.Stats
}

type breakerStater interface {
	BreakerState() string
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts same-host origins and the configured CORS
// origins. A missing Origin is rejected: browsers always send one.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if sameHost(origin, r.Host) {
		return true
	}

	if h.config != nil {
		for _, allowed := range h.config.Security.CORSOrigins {
			if allowed == "*" || allowed == origin {
				return true
			}
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

func toMovie(m recommend.Item) models.Movie {
	return models.Movie{ID: m.MovieID, Title: m.Title, RowIndex: m.RowIndex}
}

func toRecommendation(item recommend.Item) models.Recommendation {
	rec := models.Recommendation{
		Rank:     item.Rank,
		MovieID:  item.MovieID,
		Title:    item.Title,
		RowIndex: item.RowIndex,
	}
	if !math.IsNaN(item.Score) && !math.IsInf(item.Score, 0) {
		score := item.Score
		rec.Score = &score
	}
	if item.PosterURL != "" {
		poster := item.PosterURL
		rec.PosterURL = &poster
	}
	return rec
}

func toRecommendationResponse(result *recommend.Result) models.RecommendationResponse {
	recs := make([]models.Recommendation, len(result.Items))
	for i, item := range result.Items {
		recs[i] = toRecommendation(item)
	}
	return models.RecommendationResponse{
		Query:           toMovie(result.Query),
		Recommendations: recs,
	}
}
