// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"testing"

	"github.com/tomtom215/reelmatch/internal/config"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.MatchFold {
		t.Error("MatchFold should default to exact matching")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"top_k zero", func(c *Config) { c.TopK = 0 }, true},
		{"top_k above max", func(c *Config) { c.TopK = MaxTopK + 1 }, true},
		{"top_k at max", func(c *Config) { c.TopK = MaxTopK }, false},
		{"no workers", func(c *Config) { c.PosterWorkers = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromApp(t *testing.T) {
	t.Parallel()

	cfg := ConfigFromApp(config.RecommendConfig{TopK: 7, MatchFold: true, PosterWorkers: 3})
	if cfg.TopK != 7 || !cfg.MatchFold || cfg.PosterWorkers != 3 {
		t.Errorf("ConfigFromApp() = %+v", cfg)
	}
}
