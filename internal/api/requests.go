// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RecommendRequest holds the validated query of the recommend endpoints.
type RecommendRequest struct {
	Title string `query:"title" validate:"required,max=500,printable"`
}

// PosterRequest holds the validated path of GET /api/v1/posters/{id}.
type PosterRequest struct {
	MovieID int64 `query:"id" validate:"gt=0"`
}

func parseRecommendRequest(r *http.Request) RecommendRequest {
	return RecommendRequest{Title: r.URL.Query().Get("title")}
}

// parsePosterRequest leaves MovieID at zero when {id} is not an integer, so
// validation reports it.
func parsePosterRequest(r *http.Request) PosterRequest {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		id = 0
	}
	return PosterRequest{MovieID: id}
}
