// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"

	"github.com/tomtom215/reelmatch/internal/config"
)

// Limits for engine configuration.
const (
	// DefaultTopK is the number of recommendations returned per title.
	DefaultTopK = 5

	// MaxTopK bounds TopK so a single request cannot fan out into
	// thousands of poster lookups.
	MaxTopK = 100

	// DefaultPosterWorkers bounds concurrent poster lookups per request.
	DefaultPosterWorkers = 5
)

// Config contains engine configuration.
type Config struct {
	// TopK is the number of recommendations per request.
	TopK int `json:"top_k"`

	// MatchFold retries a missed exact title lookup with a trimmed,
	// case-insensitive match.
	MatchFold bool `json:"match_fold"`

	// PosterWorkers bounds concurrent poster lookups per request.
	PosterWorkers int `json:"poster_workers"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		TopK:          DefaultTopK,
		MatchFold:     false,
		PosterWorkers: DefaultPosterWorkers,
	}
}

// ConfigFromApp maps the application recommend section onto an engine Config.
func ConfigFromApp(cfg config.RecommendConfig) Config {
	return Config{
		TopK:          cfg.TopK,
		MatchFold:     cfg.MatchFold,
		PosterWorkers: cfg.PosterWorkers,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.TopK < 1 || c.TopK > MaxTopK {
		return fmt.Errorf("top_k must be in [1, %d], got %d", MaxTopK, c.TopK)
	}
	if c.PosterWorkers < 1 {
		return fmt.Errorf("poster_workers must be positive, got %d", c.PosterWorkers)
	}
	return nil
}
