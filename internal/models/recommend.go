// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package models

import "time"

// Movie is a catalog entry as served by GET /api/v1/movies.
type Movie struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	RowIndex int    `json:"row_index"`
}

// MovieList is the payload of GET /api/v1/movies.
type MovieList struct {
	Total  int     `json:"total"`
	Movies []Movie `json:"movies"`
}

// Recommendation is one ranked movie. Score is null when the similarity
// matrix holds NaN for the pair. PosterURL is null when no poster could be
// resolved.
type Recommendation struct {
	Rank      int      `json:"rank"`
	MovieID   int64    `json:"movie_id"`
	Title     string   `json:"title"`
	RowIndex  int      `json:"row_index"`
	Score     *float64 `json:"score"`
	PosterURL *string  `json:"poster_url"`
}

// RecommendationResponse is the payload of GET /api/v1/recommend.
type RecommendationResponse struct {
	Query           Movie            `json:"query"`
	Recommendations []Recommendation `json:"recommendations"`
}

// PosterResponse is the payload of GET /api/v1/posters/{id}.
type PosterResponse struct {
	MovieID   int64   `json:"movie_id"`
	PosterURL *string `json:"poster_url"`
}

// HealthStatus is the payload of the health endpoints.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	CatalogLoaded bool    `json:"catalog_loaded"`
	Movies        int     `json:"movies"`
	PosterCache   int     `json:"poster_cache_entries"`
	Breaker       string  `json:"tmdb_breaker,omitempty"`
	Uptime        float64 `json:"uptime_seconds"`
}

// Stream message types sent on /api/v1/ws/recommend.
const (
	StreamStart = "start"
	StreamItem  = "item"
	StreamDone  = "done"
	StreamError = "error"
)

// StreamMessage is one frame of a streamed recommendation.
type StreamMessage struct {
	Type      string          `json:"type"`
	Query     *Movie          `json:"query,omitempty"`
	Item      *Recommendation `json:"item,omitempty"`
	Count     int             `json:"count,omitempty"`
	Error     *APIError       `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
