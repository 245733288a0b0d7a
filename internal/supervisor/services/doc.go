// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package services provides suture.Service wrappers for reelmatch components.

Each wrapper implements suture v4's Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer, which suture uses to name the service in its event log.

Available services:

  - HTTPServerService: binds and serves an *http.Server; canceling the
    context drains in-flight requests within the shutdown timeout.
  - CacheJanitorService: purges expired poster cache entries on a ticker.

Both return ctx.Err() on a requested shutdown and a wrapped error on
failure, which suture counts toward the restart backoff.
*/
package services
