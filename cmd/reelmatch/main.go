// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Command reelmatch serves content-based movie recommendations.
//
//	reelmatch serve                 # web page on :8501, JSON API under /api/v1
//	reelmatch fetch                 # download the catalog artifacts only
//	reelmatch recommend "Avatar"    # print the five closest movies
//
// Configuration comes from defaults, an optional config.yaml and
// environment variables (TMDB_API_KEY, CATALOG_DIR, HTTP_PORT, ...).
// SIGINT and SIGTERM drain in-flight requests before exiting.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/reelmatch/cmd/reelmatch/commands"
	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/logging"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli := commands.New(nil)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	err := cli.Execute(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, catalog.ErrDataUnavailable):
		logging.Error().Err(err).Msg("Catalog data unavailable")
		return 2
	default:
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
}
