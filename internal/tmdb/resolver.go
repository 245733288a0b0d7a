// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reelmatch/internal/cache"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// Resolver maps movie ids to poster URLs.
//
// Failure policy: PosterURL never returns an error. Network failures,
// timeouts, malformed responses, exhausted retries, an open circuit breaker
// and movies without a poster all yield "" (no poster). Only definitive
// answers (a poster, a movie without a poster, or not-found) are cached;
// transient failures are retried on the next request.
type Resolver struct {
	fetcher      MovieFetcher
	imageBaseURL string
	cache        *cache.LRU[int64, string]
	limiter      *rate.Limiter
	timeout      time.Duration
	group        singleflight.Group
	logger       zerolog.Logger
}

// DefaultLookupTimeout bounds one shared outbound lookup, retries included.
const DefaultLookupTimeout = 30 * time.Second

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// ImageBaseURL is prefixed to poster_path.
	ImageBaseURL string

	// CacheCapacity bounds memoized lookups.
	CacheCapacity int

	// CacheTTL expires memoized lookups; zero keeps them until evicted.
	CacheTTL time.Duration

	// Throttle is the minimum spacing between outbound lookups.
	Throttle time.Duration

	// LookupTimeout bounds an outbound lookup independently of the callers
	// waiting on it. Zero uses DefaultLookupTimeout.
	LookupTimeout time.Duration
}

// NewResolver creates a Resolver over fetcher.
func NewResolver(fetcher MovieFetcher, opts ResolverOptions) *Resolver {
	limit := rate.Inf
	if opts.Throttle > 0 {
		limit = rate.Every(opts.Throttle)
	}

	lru := cache.NewLRU[int64, string](opts.CacheCapacity,
		cache.WithTTL[int64, string](opts.CacheTTL),
		cache.WithEvictCallback(func(int64, string) { metrics.PosterCacheEvictions.Inc() }),
	)

	timeout := opts.LookupTimeout
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}

	return &Resolver{
		fetcher:      fetcher,
		timeout:      timeout,
		imageBaseURL: opts.ImageBaseURL,
		cache:        lru,
		limiter:      rate.NewLimiter(limit, 1),
		logger:       logging.WithComponent("poster"),
	}
}

// NewResolverFromConfig builds the production resolver: HTTP client, optional
// circuit breaker and the configured cache.
func NewResolverFromConfig(tmdbCfg config.TMDBConfig, cacheCfg config.PosterCacheConfig) *Resolver {
	client := NewClient(tmdbCfg)
	if !client.Configured() {
		logging.Warn().Msg("TMDB_API_KEY is not set; recommendations will be served without posters")
	}

	var fetcher MovieFetcher = client
	if tmdbCfg.BreakerEnabled {
		fetcher = NewBreakerClient(client)
	}

	return NewResolver(fetcher, ResolverOptions{
		ImageBaseURL:  tmdbCfg.ImageBaseURL,
		CacheCapacity: cacheCfg.Capacity,
		CacheTTL:      cacheCfg.TTL,
		Throttle:      tmdbCfg.Throttle,
		LookupTimeout: lookupTimeout(tmdbCfg),
	})
}

// lookupTimeout covers every attempt plus the backoff between them.
func lookupTimeout(cfg config.TMDBConfig) time.Duration {
	if cfg.Timeout <= 0 {
		return DefaultLookupTimeout
	}
	retries := max(cfg.MaxRetries, 0)
	backoff := cfg.RetryBaseDelay * time.Duration(1<<retries-1)
	return time.Duration(retries+1)*(cfg.Timeout+maxRetryAfter) + backoff
}

// PosterURL returns the poster URL for movieID, or "" when none can be
// resolved.
func (r *Resolver) PosterURL(ctx context.Context, movieID int64) string {
	posterURL, err := r.Resolve(ctx, movieID)
	if err != nil {
		metrics.PosterUnavailable.Inc()
		logging.Ctx(ctx).Debug().Err(err).Int64("movie_id", movieID).Msg("Poster unavailable")
		return ""
	}
	if posterURL == "" {
		metrics.PosterUnavailable.Inc()
	}
	return posterURL
}

// Resolve is PosterURL with the failure exposed. Errors wrap
// ErrPosterUnavailable. A nil error with "" means TMDB has no poster.
func (r *Resolver) Resolve(ctx context.Context, movieID int64) (string, error) {
	if posterURL, ok := r.cache.Get(movieID); ok {
		metrics.PosterCacheHits.Inc()
		return posterURL, nil
	}
	metrics.PosterCacheMisses.Inc()

	// The lookup is shared by every caller asking for movieID, so it runs
	// detached from any one caller's cancellation. Each caller still stops
	// waiting when its own ctx ends.
	ch := r.group.DoChan(strconv.FormatInt(movieID, 10), func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		return r.fetch(lookupCtx, movieID)
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: movie %d: %w", ErrPosterUnavailable, movieID, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", fmt.Errorf("%w: movie %d: %w", ErrPosterUnavailable, movieID, res.Err)
		}
		if res.Shared {
			r.logger.Trace().Int64("movie_id", movieID).Msg("Joined in-flight poster lookup")
		}
		return res.Val.(string), nil
	}
}

func (r *Resolver) fetch(ctx context.Context, movieID int64) (string, error) {
	// Another caller may have filled the entry while this one waited.
	if posterURL, ok := r.cache.Peek(movieID); ok {
		return posterURL, nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}

	movie, err := r.fetcher.Movie(ctx, movieID)
	switch {
	case errors.Is(err, ErrNotFound):
		r.store(movieID, "")
		return "", nil
	case err != nil:
		return "", err
	}

	posterURL := r.posterURL(movie.PosterPath)
	r.store(movieID, posterURL)
	return posterURL, nil
}

func (r *Resolver) store(movieID int64, posterURL string) {
	r.cache.Add(movieID, posterURL)
	metrics.PosterCacheEntries.Set(float64(r.cache.Len()))
}

func (r *Resolver) posterURL(posterPath string) string {
	posterPath = strings.TrimSpace(posterPath)
	if posterPath == "" {
		return ""
	}
	return strings.TrimRight(r.imageBaseURL, "/") + "/" + strings.TrimLeft(posterPath, "/")
}

// CacheStats returns poster cache counters.
func (r *Resolver) CacheStats() cache.Stats {
	return r.cache.Stats()
}

// BreakerState reports the circuit breaker state, or "" when the resolver
// runs without one.
func (r *Resolver) BreakerState() string {
	if b, ok := r.fetcher.(*BreakerClient); ok {
		return b.State()
	}
	return ""
}

// CleanupExpired drops poster entries past their TTL and returns how many
// were removed. It is a no-op without a TTL.
func (r *Resolver) CleanupExpired() int {
	n := r.cache.CleanupExpired()
	if n > 0 {
		metrics.PosterCacheEntries.Set(float64(r.cache.Len()))
	}
	return n
}
