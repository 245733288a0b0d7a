// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package middleware provides the HTTP middleware shared by every reelmatch
route.

Key Components:

  - RequestID: X-Request-ID propagation into the logging context
  - AccessLog: per-request debug log with slow request warnings
  - PrometheusMetrics: request count, latency and in-flight gauges

All middleware uses the chi signature func(http.Handler) http.Handler and
wraps the ResponseWriter with chi's WrapResponseWriter, which keeps
http.Hijacker working for the WebSocket endpoint.

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(middleware.DefaultSlowRequestThreshold))
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
