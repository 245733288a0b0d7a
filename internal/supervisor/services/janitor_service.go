// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"time"

	"github.com/tomtom215/reelmatch/internal/logging"
)

// ExpiredCleaner drops expired cache entries. Satisfied by *tmdb.Resolver.
type ExpiredCleaner interface {
	CleanupExpired() int
}

// CacheJanitorService periodically purges expired poster cache entries so
// TTL'd entries free memory even when nobody asks for them again.
type CacheJanitorService struct {
	cleaner  ExpiredCleaner
	interval time.Duration
}

// NewCacheJanitorService creates a janitor running every interval. A
// non-positive interval defaults to one minute.
func NewCacheJanitorService(cleaner ExpiredCleaner, interval time.Duration) *CacheJanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheJanitorService{cleaner: cleaner, interval: interval}
}

// Serve implements suture.Service.
func (j *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := j.cleaner.CleanupExpired(); n > 0 {
				logging.Debug().Int("removed", n).Msg("Expired poster cache entries purged")
			}
		}
	}
}

// String implements fmt.Stringer.
func (j *CacheJanitorService) String() string {
	return "poster-cache-janitor"
}
