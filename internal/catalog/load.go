// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// NewFetcherFromConfig returns a Fetcher for the movie table and similarity
// matrix described by cfg. client may be nil.
func NewFetcherFromConfig(cfg config.CatalogConfig, client *http.Client) *Fetcher {
	return NewFetcher(cfg.DownloadURL, cfg.DownloadTimeout, client,
		Artifact{Name: "movies", Path: cfg.MoviesPath(), FileID: cfg.MoviesFileID},
		Artifact{Name: "similarity", Path: cfg.SimilarityPath(), FileID: cfg.SimilarityFileID},
	)
}

// Load fetches missing artifacts (unless disabled) and decodes them into a
// Catalog. Every failure wraps ErrDataUnavailable.
func Load(ctx context.Context, cfg config.CatalogConfig, client *http.Client) (*Catalog, error) {
	start := time.Now()

	if !cfg.SkipDownload {
		if err := NewFetcherFromConfig(cfg, client).Ensure(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
		}
	}

	movies, err := ReadMoviesFile(cfg.MoviesPath())
	if err != nil {
		return nil, err
	}
	matrix, err := ReadNPYFile(cfg.SimilarityPath())
	if err != nil {
		return nil, err
	}

	c, err := New(movies, matrix)
	if err != nil {
		return nil, err
	}
	metrics.CatalogMovies.Set(float64(c.Len()))

	logging.Info().
		Int("movies", c.Len()).
		Str("movies_path", cfg.MoviesPath()).
		Str("similarity_path", cfg.SimilarityPath()).
		Dur("duration", time.Since(start)).
		Msg("Catalog loaded")
	return c, nil
}

// ReadMoviesFile opens and parses a movie table CSV.
func ReadMoviesFile(path string) ([]Movie, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("%w: open movie table: %w", ErrDataUnavailable, err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	movies, err := ReadMovies(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, path, err)
	}
	return movies, nil
}

// ReadNPYFile opens and decodes a similarity matrix .npy file.
func ReadNPYFile(path string) (*Matrix, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("%w: open similarity matrix: %w", ErrDataUnavailable, err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat similarity matrix: %w", ErrDataUnavailable, err)
	}

	m, err := readNPY(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, path, err)
	}
	return m, nil
}
