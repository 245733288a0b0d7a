// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package tmdb resolves movie posters through The Movie Database API.
//
// Client performs the raw lookups: GET /movie/{id} with a per-attempt
// timeout and bounded exponential-backoff retries on 429/500/502/503/504.
// Resolver layers a bounded LRU, request collapsing, a shared throttle and a
// circuit breaker on top, and converts every failure into an absent poster.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

const (
	// maxBodySize bounds a movie details response.
	maxBodySize = 1 << 20

	// maxErrorBodySize bounds the snippet kept from an error response.
	maxErrorBodySize = 512

	// maxRetryAfter caps a server-requested Retry-After wait.
	maxRetryAfter = 10 * time.Second
)

var (
	// ErrPosterUnavailable marks any failure to resolve a poster.
	ErrPosterUnavailable = errors.New("poster unavailable")

	// ErrNotFound is returned when TMDB has no movie with the given id.
	ErrNotFound = errors.New("tmdb: movie not found")

	// ErrUnauthorized is returned when the API key is missing or rejected.
	ErrUnauthorized = errors.New("tmdb: unauthorized")
)

// StatusError is a non-success HTTP response from TMDB.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tmdb: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("tmdb: HTTP %d: %s", e.StatusCode, e.Body)
}

// Movie is the subset of TMDB movie details reelmatch uses.
type Movie struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
}

// MovieFetcher looks up movie details by TMDB id.
type MovieFetcher interface {
	Movie(ctx context.Context, id int64) (*Movie, error)
}

// Client is a TMDB v3 API client.
type Client struct {
	baseURL        string
	apiKey         string
	language       string
	client         *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a Client from configuration.
func NewClient(cfg config.TMDBConfig) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		language:       cfg.Language,
		client:         &http.Client{Timeout: cfg.Timeout},
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Movie fetches details for the movie with the given TMDB id.
func (c *Client) Movie(ctx context.Context, id int64) (*Movie, error) {
	if !c.Configured() {
		return nil, ErrUnauthorized
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	reqURL := c.baseURL + "/movie/" + strconv.FormatInt(id, 10) + "?" + params.Encode()

	start := time.Now()
	defer func() { metrics.TMDBRequestDuration.Observe(time.Since(start).Seconds()) }()

	resp, err := c.doRequestWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // read-only body

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: readBodyForError(resp.Body)}
	}

	var movie Movie
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&movie); err != nil {
		return nil, fmt.Errorf("tmdb: decode movie %d: %w", id, err)
	}
	return &movie, nil
}

// doRequestWithRetry performs a GET, retrying retryable statuses with
// exponential backoff (base, 2*base, 4*base...). A Retry-After header longer
// than the computed delay is honoured up to maxRetryAfter. Transport errors
// are not retried. The final response is returned even when its status is
// retryable so the caller can classify it.
func (c *Client) doRequestWithRetry(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("tmdb: create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			metrics.RecordTMDBAttempt(0)
			return nil, fmt.Errorf("tmdb: request failed: %w", redactURLError(err))
		}
		metrics.RecordTMDBAttempt(resp.StatusCode)

		if !isRetryableStatus(resp.StatusCode) || attempt >= c.maxRetries {
			return resp, nil
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if ra := parseRetryAfter(resp.Header.Get("Retry-After")); ra > delay {
			delay = min(ra, maxRetryAfter)
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize)) //nolint:errcheck // draining for reuse
		_ = resp.Body.Close()                                                     //nolint:errcheck // retrying anyway
		metrics.TMDBRetries.Inc()

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(body))
}

// redactURLError drops the request URL, which carries the API key, from
// transport errors.
func redactURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
