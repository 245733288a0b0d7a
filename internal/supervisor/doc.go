// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package supervisor runs the long-lived reelmatch services under a suture v4
supervisor tree.

	reelmatch
	├── maintenance-layer
	│   └── CacheJanitorService
	└── api-layer
	    └── HTTPServerService

Crashed services restart with suture's backoff; a failing janitor never
takes the HTTP server down with it. Supervisor events are logged through
the zerolog-backed slog adapter from the logging package.

Usage:

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.AddMaintenanceService(services.NewCacheJanitorService(resolver, time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}
*/
package supervisor
