// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package commands implements the reelmatch command line interface.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
)

// Build information, set with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// ConfigLoader returns the validated configuration.
type ConfigLoader func() (*config.Config, error)

// CLI is the reelmatch command tree.
type CLI struct {
	loadConfig ConfigLoader
	configPath string
	rootCmd    *cobra.Command
}

// New creates the command tree. A nil loader uses config.Load.
func New(loader ConfigLoader) *CLI {
	if loader == nil {
		loader = config.Load
	}

	rootCmd := &cobra.Command{
		Use:           "reelmatch",
		Short:         "Content-based movie recommender",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n", Commit, Date,
	))

	c := &CLI{loadConfig: loader, rootCmd: rootCmd}

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "",
		"Path to a YAML config file (overrides "+config.ConfigPathEnvVar+")")

	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newFetchCmd())
	rootCmd.AddCommand(c.newRecommendCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the command selected by the arguments.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// setup loads configuration and initializes logging from it.
func (c *CLI) setup() (*config.Config, error) {
	if c.configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, c.configPath); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", config.ConfigPathEnvVar, err)
		}
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	return cfg, nil
}
