// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package recommend ranks movies by precomputed content similarity.
//
// # Ranking
//
// The query title is resolved to its catalog row. Every other row of that
// similarity row is a candidate; candidates are ordered by score descending,
// equal scores by ascending row index, and NaN scores after every finite
// score. The query row itself is removed by index, never by assuming it
// sorts first, so duplicate rows or self-similarity below 1.0 cannot leak
// the query into its own results.
//
// # Posters
//
// Posters for the selected rows are resolved concurrently through a
// PosterResolver. Lookups are bounded by Config.PosterWorkers and write into
// the slot of their rank, so output order always matches the ranking.
// Poster failures never fail a recommendation; they yield an empty
// PosterURL.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cat, resolver, recommend.DefaultConfig())
//	result, err := engine.Recommend(ctx, "Avatar")
//	if errors.Is(err, recommend.ErrUnknownTitle) {
//	    // title not in catalog
//	}
//	for _, item := range result.Items {
//	    fmt.Println(item.Title, item.PosterURL)
//	}
//
// # Thread Safety
//
// An Engine is immutable after construction and safe for concurrent use.
package recommend
