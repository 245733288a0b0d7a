// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/reelmatch/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the catalog and serve the web page and API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.setup()
			if err != nil {
				return err
			}

			a, err := app.New(cmd.Context(), cfg, Version)
			if err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			return a.Run(cmd.Context())
		},
	}
}
