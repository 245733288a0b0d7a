// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/tomtom215/reelmatch/internal/logging"
)

// Bounds for tunable values.
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour

	maxPosterCacheCapacity = 1_000_000
	maxTMDBRetries         = 10
	maxTopK                = 100
	maxPosterWorkers       = 32
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateCatalog,
		c.validateTMDB,
		c.validatePosterCache,
		c.validateRecommend,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.MoviesFile == "" {
		return fmt.Errorf("CATALOG_MOVIES_FILE is required")
	}
	if c.Catalog.SimilarityFile == "" {
		return fmt.Errorf("CATALOG_SIMILARITY_FILE is required")
	}
	if c.Catalog.SkipDownload {
		return nil
	}
	if err := validateHTTPURL("CATALOG_DOWNLOAD_URL", c.Catalog.DownloadURL); err != nil {
		return err
	}
	if c.Catalog.DownloadTimeout <= 0 {
		return fmt.Errorf("CATALOG_DOWNLOAD_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if err := validateHTTPURL("TMDB_BASE_URL", c.TMDB.BaseURL); err != nil {
		return err
	}
	if err := validateHTTPURL("TMDB_IMAGE_BASE_URL", c.TMDB.ImageBaseURL); err != nil {
		return err
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT must be positive")
	}
	if c.TMDB.Throttle < 0 {
		return fmt.Errorf("TMDB_THROTTLE must not be negative")
	}
	if c.TMDB.MaxRetries < 0 || c.TMDB.MaxRetries > maxTMDBRetries {
		return fmt.Errorf("TMDB_MAX_RETRIES must be between 0 and %d", maxTMDBRetries)
	}
	if c.TMDB.RetryBaseDelay < 0 {
		return fmt.Errorf("TMDB_RETRY_BASE_DELAY must not be negative")
	}
	return nil
}

func (c *Config) validatePosterCache() error {
	if c.PosterCache.Capacity < 1 || c.PosterCache.Capacity > maxPosterCacheCapacity {
		return fmt.Errorf("POSTER_CACHE_CAPACITY must be between 1 and %d", maxPosterCacheCapacity)
	}
	if c.PosterCache.TTL < 0 {
		return fmt.Errorf("POSTER_CACHE_TTL must not be negative")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.TopK < 1 || c.Recommend.TopK > maxTopK {
		return fmt.Errorf("RECOMMEND_TOP_K must be between 1 and %d", maxTopK)
	}
	if c.Recommend.PosterWorkers < 1 || c.Recommend.PosterWorkers > maxPosterWorkers {
		return fmt.Errorf("RECOMMEND_POSTER_WORKERS must be between 1 and %d", maxPosterWorkers)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, panic, disabled")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

func validateHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}
