// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelmatch/config.yaml",
	"/etc/reelmatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8501,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Catalog: CatalogConfig{
			Dir:             "data",
			MoviesFile:      "movies.csv",
			SimilarityFile:  "similarity.npy",
			DownloadURL:     "https://drive.google.com/uc",
			DownloadTimeout: 5 * time.Minute,
			SkipDownload:    false,
		},
		TMDB: TMDBConfig{
			APIKey:         "",
			BaseURL:        "https://api.themoviedb.org/3",
			ImageBaseURL:   "https://image.tmdb.org/t/p/w500/",
			Language:       "en-US",
			Timeout:        5 * time.Second,
			Throttle:       50 * time.Millisecond,
			MaxRetries:     3,
			RetryBaseDelay: 300 * time.Millisecond,
			BreakerEnabled: true,
		},
		PosterCache: PosterCacheConfig{
			Capacity: 5000,
			TTL:      0,
		},
		Recommend: RecommendConfig{
			TopK:          5,
			MatchFold:     false,
			PosterWorkers: 5,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads defaults, the optional config file and environment
// variables, then validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	"catalog_dir":              "catalog.dir",
	"catalog_movies_file":      "catalog.movies_file",
	"catalog_similarity_file":  "catalog.similarity_file",
	"catalog_movies_id":        "catalog.movies_file_id",
	"catalog_similarity_id":    "catalog.similarity_file_id",
	"catalog_download_url":     "catalog.download_url",
	"catalog_download_timeout": "catalog.download_timeout",
	"catalog_skip_download":    "catalog.skip_download",

	"tmdb_api_key":          "tmdb.api_key",
	"tmdb_base_url":         "tmdb.base_url",
	"tmdb_image_base_url":   "tmdb.image_base_url",
	"tmdb_language":         "tmdb.language",
	"tmdb_timeout":          "tmdb.timeout",
	"tmdb_throttle":         "tmdb.throttle",
	"tmdb_max_retries":      "tmdb.max_retries",
	"tmdb_retry_base_delay": "tmdb.retry_base_delay",
	"tmdb_breaker_enabled":  "tmdb.breaker_enabled",

	"poster_cache_capacity": "poster_cache.capacity",
	"poster_cache_ttl":      "poster_cache.ttl",

	"recommend_top_k":          "recommend.top_k",
	"recommend_match_fold":     "recommend.match_fold",
	"recommend_poster_workers": "recommend.poster_workers",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"rate_limit_disabled": "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path,
// e.g. TMDB_API_KEY -> tmdb.api_key. Returns "" for unknown variables.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// MoviesPath returns the local path of the movie table.
func (c CatalogConfig) MoviesPath() string {
	return c.resolve(c.MoviesFile)
}

// SimilarityPath returns the local path of the similarity matrix.
func (c CatalogConfig) SimilarityPath() string {
	return c.resolve(c.SimilarityFile)
}

func (c CatalogConfig) resolve(name string) string {
	if filepath.IsAbs(name) || c.Dir == "" {
		return name
	}
	return filepath.Join(c.Dir, name)
}
