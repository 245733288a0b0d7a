// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package config loads reelmatch configuration.
//
// Loading order (later layers win):
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/reelmatch/config.yaml)
//  3. Environment variables, optionally seeded from a .env file
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DotEnvFile is read into the process environment before loading, if present.
const DotEnvFile = ".env"

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Catalog     CatalogConfig     `koanf:"catalog"`
	TMDB        TMDBConfig        `koanf:"tmdb"`
	PosterCache PosterCacheConfig `koanf:"poster_cache"`
	Recommend   RecommendConfig   `koanf:"recommend"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// CatalogConfig locates the movie table and similarity matrix artifacts.
type CatalogConfig struct {
	// Dir holds the local artifact copies.
	Dir string `koanf:"dir"`

	// MoviesFile is a CSV with header movie_id,title; row order is the matrix row index.
	MoviesFile string `koanf:"movies_file"`

	// SimilarityFile is a 2-D float32/float64 NumPy .npy matrix.
	SimilarityFile string `koanf:"similarity_file"`

	// MoviesFileID and SimilarityFileID are remote file identifiers used
	// only when the local file is missing.
	MoviesFileID     string `koanf:"movies_file_id"`
	SimilarityFileID string `koanf:"similarity_file_id"`

	// DownloadURL is the file-hosting endpoint; the id is passed as ?id=.
	DownloadURL     string        `koanf:"download_url"`
	DownloadTimeout time.Duration `koanf:"download_timeout"`

	// SkipDownload disables remote fetching entirely.
	SkipDownload bool `koanf:"skip_download"`
}

// TMDBConfig holds poster metadata API settings.
type TMDBConfig struct {
	APIKey         string        `koanf:"api_key"`
	BaseURL        string        `koanf:"base_url"`
	ImageBaseURL   string        `koanf:"image_base_url"`
	Language       string        `koanf:"language"`
	Timeout        time.Duration `koanf:"timeout"`
	Throttle       time.Duration `koanf:"throttle"`
	MaxRetries     int           `koanf:"max_retries"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`
	BreakerEnabled bool          `koanf:"breaker_enabled"`
}

// PosterCacheConfig bounds the poster memoization cache.
type PosterCacheConfig struct {
	Capacity int `koanf:"capacity"`

	// TTL of zero keeps entries until evicted by capacity.
	TTL time.Duration `koanf:"ttl"`
}

// RecommendConfig tunes the recommendation lookup.
type RecommendConfig struct {
	TopK int `koanf:"top_k"`

	// MatchFold retries a missed exact title lookup with trimmed,
	// case-insensitive matching.
	MatchFold bool `koanf:"match_fold"`

	// PosterWorkers caps concurrent poster lookups per recommendation.
	PosterWorkers int `koanf:"poster_workers"`
}

// SecurityConfig holds CORS and inbound rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load seeds the environment from .env when present, then loads and
// validates configuration.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", DotEnvFile, err)
	}
	return LoadWithKoanf()
}
