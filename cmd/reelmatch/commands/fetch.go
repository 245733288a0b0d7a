// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

func (c *CLI) newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download missing catalog artifacts and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.setup()
			if err != nil {
				return err
			}

			if err := catalog.NewFetcherFromConfig(cfg.Catalog, nil).Ensure(cmd.Context()); err != nil {
				return fmt.Errorf("%w: %w", catalog.ErrDataUnavailable, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", cfg.Catalog.MoviesPath(), cfg.Catalog.SimilarityPath())
			return nil
		},
	}
}
