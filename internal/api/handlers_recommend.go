// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/reelmatch/internal/models"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Movies handles GET /api/v1/movies and lists the catalog in row order.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	engine := h.requireEngine(w, r)
	if engine == nil {
		return
	}

	movies := engine.Catalog().Movies()
	out := make([]models.Movie, len(movies))
	for i, m := range movies {
		out[i] = models.Movie{ID: m.ID, Title: m.Title, RowIndex: m.RowIndex}
	}

	respondSuccess(w, r, models.MovieList{Total: len(out), Movies: out}, start)
}

// Recommend handles GET /api/v1/recommend?title=X.
//
// Responses:
//   - 200 with the query movie and the ranked recommendations
//   - 400 VALIDATION_ERROR when title is missing or malformed
//   - 404 UNKNOWN_TITLE when title is not in the catalog
//   - 503 SERVICE_UNAVAILABLE before the catalog is loaded
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	engine := h.requireEngine(w, r)
	if engine == nil {
		return
	}

	req := parseRecommendRequest(r)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	result, err := engine.Recommend(r.Context(), req.Title)
	if err != nil {
		h.respondRecommendError(w, r, req.Title, err)
		return
	}

	respondSuccess(w, r, toRecommendationResponse(result), start)
}

func (h *Handler) respondRecommendError(w http.ResponseWriter, r *http.Request, title string, err error) {
	switch {
	case recommend.IsUnknownTitle(err):
		respondAPIError(w, r, http.StatusNotFound, unknownTitleError(title), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The client is gone; nothing useful reaches it.
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable, "Request canceled", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to generate recommendations", err)
	}
}

func unknownTitleError(title string) *models.APIError {
	return &models.APIError{
		Code:    models.ErrCodeUnknownTitle,
		Message: "Title not found in catalog",
		Details: map[string]interface{}{"title": title},
	}
}

// Poster handles GET /api/v1/posters/{id}. Only catalog movies are
// resolved; poster_url is null when none is available.
func (h *Handler) Poster(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	engine := h.requireEngine(w, r)
	if engine == nil {
		return
	}

	req := parsePosterRequest(r)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	if _, ok := engine.Catalog().ByID(req.MovieID); !ok {
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "Movie not found in catalog", nil)
		return
	}

	resp := models.PosterResponse{MovieID: req.MovieID}
	if url := h.posters.PosterURL(r.Context(), req.MovieID); url != "" {
		resp.PosterURL = &url
	}
	respondSuccess(w, r, resp, start)
}
