// Package cmd implements the CLI commands for gdocsmd using Cobra.
package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/gdocsmd/config"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "gdocsmd",
	Short: "gdocsmd — turn Google Docs exports into portable Markdown",
	Long: `gdocsmd exports a Google Doc to Markdown and patches the result into a
standalone file: embedded images are resolved (optionally downloaded next
to the output), header anchors are normalized and table-of-contents links
are rewritten to point at them.

Usage:
  gdocsmd convert --file-id <id|url> --output <file> [flags]
  gdocsmd patch <raw.md> --uris <file> --output <file>`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"config file (default: ./gdocsmd.yaml or ~/.gdocsmd/gdocsmd.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
}

// Execute runs the root command with ctx. The caller reports the error.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig loads configuration, letting the command's changed flags
// override every other source.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(flagConfig, cmd.Flags())
}

// newLogger builds the process logger from cfg and installs it as the
// slog default.
func newLogger(cfg *config.Config) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
