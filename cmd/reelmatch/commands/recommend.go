// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/reelmatch/internal/app"
)

func (c *CLI) newRecommendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <title>",
		Short: "Print the movies most similar to title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.setup()
			if err != nil {
				return err
			}

			a, err := app.New(cmd.Context(), cfg, Version)
			if err != nil {
				return err
			}

			result, err := a.Engine.Recommend(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, item := range result.Items {
				poster := item.PosterURL
				if poster == "" {
					poster = "-"
				}
				_, _ = fmt.Fprintf(tw, "%d.\t%s\t%s\n", item.Rank, item.Title, poster)
			}
			return tw.Flush()
		},
	}
}
