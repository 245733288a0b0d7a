// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package app assembles the reelmatch components from configuration: the
// catalog, the poster resolver, the recommendation engine, the HTTP router
// and the supervisor tree that runs them.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/reelmatch/internal/api"
	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/supervisor"
	"github.com/tomtom215/reelmatch/internal/supervisor/services"
	"github.com/tomtom215/reelmatch/internal/tmdb"
)

// readHeaderTimeout bounds slow-header clients independently of the
// configured request timeout.
const readHeaderTimeout = 10 * time.Second

// App holds the loaded components of one reelmatch process.
type App struct {
	Config   *config.Config
	Catalog  *catalog.Catalog
	Resolver *tmdb.Resolver
	Engine   *recommend.Engine
	Version  string
}

// New loads the catalog and builds the engine. A catalog failure is
// returned wrapped in catalog.ErrDataUnavailable; the caller decides
// whether that is fatal.
func New(ctx context.Context, cfg *config.Config, version string) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}

	cat, err := catalog.Load(ctx, cfg.Catalog, nil)
	if err != nil {
		return nil, err
	}

	resolver := tmdb.NewResolverFromConfig(cfg.TMDB, cfg.PosterCache)
	engine, err := recommend.NewEngine(cat, resolver, recommend.ConfigFromApp(cfg.Recommend))
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation engine: %w", err)
	}

	return &App{
		Config:   cfg,
		Catalog:  cat,
		Resolver: resolver,
		Engine:   engine,
		Version:  version,
	}, nil
}

// Handler returns the fully wired HTTP handler.
func (a *App) Handler() http.Handler {
	handler := api.NewHandler(a.Engine, a.Resolver, a.Config, a.Version)
	return api.NewRouter(handler, a.Config).SetupChi()
}

// HTTPServer returns an unstarted server for the configured address.
//
// No WriteTimeout is set: recommendation streams hold the connection open
// and manage their own write deadlines.
func (a *App) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              a.Config.Server.Addr(),
		Handler:           a.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       a.Config.Server.Timeout,
		IdleTimeout:       2 * a.Config.Server.Timeout,
	}
}

// Supervisor builds the process tree. The poster cache janitor is added
// only when entries expire; without a TTL the LRU bound is the only
// eviction.
func (a *App) Supervisor() (*supervisor.SupervisorTree, *services.HTTPServerService) {
	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: a.Config.Server.ShutdownTimeout + time.Second,
	})

	httpService := services.NewHTTPServerService(a.HTTPServer(), a.Config.Server.ShutdownTimeout)
	tree.AddAPIService(httpService)

	if ttl := a.Config.PosterCache.TTL; ttl > 0 {
		tree.AddMaintenanceService(services.NewCacheJanitorService(a.Resolver, janitorInterval(ttl)))
	}
	return tree, httpService
}

// Run serves until ctx is done. A requested shutdown returns nil.
func (a *App) Run(ctx context.Context) error {
	tree, _ := a.Supervisor()

	logging.Info().
		Str("addr", a.Config.Server.Addr()).
		Str("version", a.Version).
		Msg("Starting reelmatch")

	err := tree.Serve(ctx)

	if unstopped, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervisor stopped: %w", err)
	}
	logging.Info().Msg("Shutdown complete")
	return nil
}

// janitorInterval sweeps at half the TTL, between 10s and 5m.
func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 2
	switch {
	case interval < 10*time.Second:
		return 10 * time.Second
	case interval > 5*time.Minute:
		return 5 * time.Minute
	}
	return interval
}
