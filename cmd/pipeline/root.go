// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/movierec/internal/bootstrap"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/pipeline"
)

// loadConfig is replaced in tests.
type loadConfig func() (*config.Config, error)

func NewRootCmd(version string, load loadConfig) *cobra.Command {
	if load == nil {
		load = config.Load
	}

	rootCmd := &cobra.Command{
		Use:           "pipeline",
		Short:         "Run the MovieRec training pipeline",
		Long:          `Download, transform, prepare and embed the movie catalog, writing the artifacts the server loads.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          makeRunRunner(load),
	}

	rootCmd.Flags().StringSlice("stages", nil, "Comma-separated stage IDs to run (default: all)")
	rootCmd.Flags().Bool("json", false, "Print the run result as JSON")

	rootCmd.AddCommand(NewStagesCmd(load))
	return rootCmd
}

func NewStagesCmd(load loadConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List pipeline stages in run order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			p, closeFn, err := bootstrap.Pipeline(cfg, logging.Logger())
			defer closeFn() //nolint:errcheck // nothing was written
			if err != nil {
				return err
			}
			for _, id := range p.Stages() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func makeRunRunner(load loadConfig) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logging.Init(logging.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			Caller:    cfg.Logging.Caller,
			Timestamp: true,
			Output:    cmd.ErrOrStderr(),
		})

		p, closeEmbedder, err := bootstrap.Pipeline(cfg, logging.Logger())
		defer func() {
			if cerr := closeEmbedder(); cerr != nil {
				logging.Error().Err(cerr).Msg("Error closing embedder")
			}
		}()
		if err != nil {
			return err
		}

		stages, _ := cmd.Flags().GetStringSlice("stages")
		if len(stages) > 0 {
			if p, err = p.Select(stages...); err != nil {
				return err
			}
		}

		result, err := p.Execute(cmd.Context())
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		return printResult(cmd, result, asJSON)
	}
}

func printResult(cmd *cobra.Command, result *pipeline.Result, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	ids := make([]string, len(result.Stages))
	for i, s := range result.Stages {
		ids[i] = s.ID
		fmt.Fprintf(out, "%-15s %8d records  %s\n", s.ID, s.Records, s.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(out, "run %s completed %s in %s\n", result.RunID, strings.Join(ids, ","), result.Duration.Round(time.Millisecond))
	return nil
}
