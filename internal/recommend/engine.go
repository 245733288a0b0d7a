// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// Recommendation outcome labels for metrics.
const (
	resultSuccess      = "success"
	resultUnknownTitle = "unknown_title"
	resultCanceled     = "canceled"
)

// Engine produces recommendations from a loaded catalog.
// It is safe for concurrent use.
type Engine struct {
	config  Config
	catalog *catalog.Catalog
	posters PosterResolver
	logger  zerolog.Logger
}

// NewEngine creates an engine over cat. A nil posters resolver serves every
// item without a poster.
func NewEngine(cat *catalog.Catalog, posters PosterResolver, cfg Config) (*Engine, error) {
	if cat == nil {
		return nil, fmt.Errorf("%w: no catalog", catalog.ErrDataUnavailable)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if posters == nil {
		posters = NoPosters{}
	}

	e := &Engine{
		config:  cfg,
		catalog: cat,
		posters: posters,
		logger:  logging.WithComponent("recommend"),
	}
	e.logger.Info().
		Int("movies", cat.Len()).
		Int("top_k", cfg.TopK).
		Bool("match_fold", cfg.MatchFold).
		Msg("Recommendation engine ready")
	return e, nil
}

// Catalog returns the catalog the engine ranks over.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Recommend returns the TopK movies most similar to title, with posters.
func (e *Engine) Recommend(ctx context.Context, title string) (*Result, error) {
	return e.Stream(ctx, title, nil)
}

// Stream is Recommend that also calls emit for each item, in rank order, as
// soon as its poster lookup has finished. A non-nil error from emit stops
// the remaining lookups and is returned.
func (e *Engine) Stream(ctx context.Context, title string, emit func(Item) error) (*Result, error) {
	result, err := e.Rank(title)
	if err != nil {
		logging.Ctx(ctx).Debug().Str("component", "recommend").Str("title", title).Msg("Unknown title")
		return nil, err
	}
	if err := e.Resolve(ctx, result, emit); err != nil {
		return nil, err
	}
	return result, nil
}

// Rank selects the TopK movies most similar to title without resolving
// posters.
func (e *Engine) Rank(title string) (*Result, error) {
	query, ok := e.lookup(title)
	if !ok {
		metrics.RecordRecommendation(resultUnknownTitle, 0)
		return nil, fmt.Errorf("%w: %q", ErrUnknownTitle, title)
	}

	scores := e.catalog.Row(query.RowIndex)
	rows := topK(scores, query.RowIndex, e.config.TopK)

	items := make([]Item, len(rows))
	for i, row := range rows {
		m, _ := e.catalog.ByRow(row)
		items[i] = Item{
			Rank:     i + 1,
			MovieID:  m.ID,
			Title:    m.Title,
			RowIndex: m.RowIndex,
			Score:    scores[row],
		}
	}

	return &Result{
		Query: Item{
			MovieID:  query.ID,
			Title:    query.Title,
			RowIndex: query.RowIndex,
			Score:    scores[query.RowIndex],
		},
		Items: items,
	}, nil
}

// Resolve fills the poster URLs of a ranked result, calling emit for each
// item in rank order as its lookup finishes. It returns ctx.Err() when ctx
// ends before every item is final, or the first error from emit.
func (e *Engine) Resolve(ctx context.Context, result *Result, emit func(Item) error) error {
	start := time.Now()

	if err := e.resolvePosters(ctx, result.Items, emit); err != nil {
		metrics.RecordRecommendation(resultCanceled, time.Since(start))
		return err
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordRecommendation(resultCanceled, time.Since(start))
		return err
	}

	metrics.RecordRecommendation(resultSuccess, time.Since(start))
	logging.Ctx(ctx).Debug().
		Str("component", "recommend").
		Str("title", result.Query.Title).
		Int("row_index", result.Query.RowIndex).
		Int("returned", len(result.Items)).
		Dur("latency", time.Since(start)).
		Msg("Recommendation complete")

	return nil
}

func (e *Engine) lookup(title string) (catalog.Movie, bool) {
	if m, ok := e.catalog.Lookup(title); ok {
		return m, true
	}
	if e.config.MatchFold {
		return e.catalog.LookupFold(title)
	}
	return catalog.Movie{}, false
}

// resolvePosters fills items[i].PosterURL concurrently. Each lookup writes
// only its own slot; ready[i] is closed once slot i is final.
func (e *Engine) resolvePosters(ctx context.Context, items []Item, emit func(Item) error) error {
	if len(items) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ready := make([]chan struct{}, len(items))
	for i := range ready {
		ready[i] = make(chan struct{})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.PosterWorkers)

	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i := range items {
			g.Go(func() error {
				defer close(ready[i])
				items[i].PosterURL = e.posters.PosterURL(gctx, items[i].MovieID)
				return nil
			})
		}
		_ = g.Wait() //nolint:errcheck // lookups are fail-soft and never return errors
	}()

	var emitErr error
	for i := range items {
		<-ready[i]
		if emit == nil || emitErr != nil {
			continue
		}
		if err := emit(items[i]); err != nil {
			emitErr = err
			cancel()
		}
	}
	<-launched

	return emitErr
}

// topK returns up to k row indices of scores ordered best first, skipping
// self. Better means a higher score, then a lower row index. NaN ranks
// below every finite score.
func topK(scores []float64, self, k int) []int {
	if k <= 0 {
		return nil
	}
	best := make([]int, 0, k+1)

	for row := range scores {
		if row == self {
			continue
		}
		if len(best) == k && !better(scores, row, best[k-1]) {
			continue
		}

		// Insertion keeps best sorted; k is small.
		pos := len(best)
		for pos > 0 && better(scores, row, best[pos-1]) {
			pos--
		}
		best = append(best, 0)
		copy(best[pos+1:], best[pos:])
		best[pos] = row
		if len(best) > k {
			best = best[:k]
		}
	}
	return best
}

// better reports whether row a ranks before row b.
func better(scores []float64, a, b int) bool {
	sa, sb := scores[a], scores[b]
	aNaN, bNaN := math.IsNaN(sa), math.IsNaN(sb)
	switch {
	case aNaN && bNaN:
		return a < b
	case aNaN:
		return false
	case bNaN:
		return true
	case sa != sb:
		return sa > sb
	default:
		return a < b
	}
}

// IsUnknownTitle reports whether err means the title is not in the catalog.
func IsUnknownTitle(err error) bool {
	return errors.Is(err, ErrUnknownTitle)
}
