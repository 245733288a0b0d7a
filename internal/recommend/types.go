// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
)

// ErrUnknownTitle is returned when the query title is not in the catalog.
var ErrUnknownTitle = errors.New("unknown title")

// PosterResolver maps a movie id to a poster URL. An empty string means no
// poster; implementations must not block past ctx.
type PosterResolver interface {
	PosterURL(ctx context.Context, movieID int64) string
}

// Item is one recommended movie.
type Item struct {
	// Rank is the 1-based position in the result.
	Rank int `json:"rank"`

	// MovieID is the TMDB id from the catalog.
	MovieID int64 `json:"movie_id"`

	// Title is the catalog title.
	Title string `json:"title"`

	// RowIndex is the catalog row of the movie.
	RowIndex int `json:"row_index"`

	// Score is the similarity to the query movie. May be NaN when the
	// matrix holds NaN.
	Score float64 `json:"-"`

	// PosterURL is empty when no poster could be resolved.
	PosterURL string `json:"poster_url"`
}

// Result is the response to a recommendation request.
type Result struct {
	// Query is the catalog movie the recommendations are similar to.
	Query Item `json:"query"`

	// Items holds the recommendations in rank order.
	Items []Item `json:"items"`
}

// Titles returns the recommended titles in rank order.
func (r *Result) Titles() []string {
	out := make([]string, len(r.Items))
	for i := range r.Items {
		out[i] = r.Items[i].Title
	}
	return out
}

// PosterURLs returns poster URLs aligned with Titles.
func (r *Result) PosterURLs() []string {
	out := make([]string, len(r.Items))
	for i := range r.Items {
		out[i] = r.Items[i].PosterURL
	}
	return out
}

// NoPosters is a PosterResolver that never returns a poster.
type NoPosters struct{}

// PosterURL always returns "".
func (NoPosters) PosterURL(context.Context, int64) string { return "" }
