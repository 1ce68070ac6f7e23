// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package cli implements the strata command line interface.
package cli

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// NewRootCommand returns the strata root command with every
// subcommand registered.
func NewRootCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "strata",
		Short:         "Layered configuration",
		Long:          "strata merges config files, environment variables and inline values into a single document.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every config source as it is produced")

	cmd.AddCommand(newMergeCommand(func(cmd *cobra.Command) *slog.Logger {
		return newLogger(cmd.ErrOrStderr(), verbose)
	}))
	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}

	h := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "strata",
		ReportTimestamp: false,
	})
	return slog.New(h)
}
