// Package cli wires the skill tools into a cobra command tree. Every
// command is one pipeline pass; errors bubble up to main as a single
// user-facing line and a non-zero exit.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"skillkit/internal/logger"
)

// Execute runs the root command with the given base context.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the root command and its subcommands.
func NewRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "skillkit",
		Short: "Fetch external data and render it as text, CSV, or Markdown",
		Long: `skillkit is a collection of small fetch-normalize-render tools:
market data, subtitle downloads, and document-to-Markdown conversion.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetLevel(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newMarketCmd(),
		newSubtitlesCmd(),
		newConvertCmd(),
		newSkillsCmd(),
		newSetupCmd(),
	)

	return cmd
}
