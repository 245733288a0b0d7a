// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package api provides the HTTP layer for reelmatch.

Routes:

	GET /                          HTML picker; ?title=X renders recommendation cards
	GET /api/v1/movies             catalog listing
	GET /api/v1/recommend?title=X  ranked recommendations with posters
	GET /api/v1/posters/{id}       poster URL for one catalog movie
	GET /api/v1/ws/recommend       WebSocket stream of a recommendation
	GET /api/v1/health/live        liveness probe
	GET /api/v1/health/ready       readiness probe (503 until the catalog loads)
	GET /metrics                   Prometheus exposition

Middleware Stack:

Every route passes through request id assignment, chi RealIP and
Recoverer, access logging, Prometheus request metrics, go-chi/cors and
security headers. The data endpoints add a per-IP go-chi/httprate limiter
and response compression. The WebSocket route has its own, tighter upgrade
limit and no compression.

Responses:

JSON endpoints share the models.APIResponse envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 3, "request_id": "..."}
	}

Successful responses carry an ETag over the data payload; a matching
If-None-Match yields 304 Not Modified.

Error codes:

  - VALIDATION_ERROR (400): missing or malformed parameters
  - UNKNOWN_TITLE (404): title not in the catalog
  - NOT_FOUND (404): unknown movie id or route
  - TOO_MANY_REQUESTS (429): rate limit exceeded
  - SERVICE_UNAVAILABLE (503): catalog not loaded
  - INTERNAL_ERROR (500): unexpected failure

Usage:

	handler := api.NewHandler(engine, resolver, cfg, version)
	srv := &http.Server{
	    Addr:    cfg.Server.Addr(),
	    Handler: api.NewRouter(handler, cfg).SetupChi(),
	}
*/
package api
