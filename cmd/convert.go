// Package cmd — convert command.
// Exports a Google Doc and patches it into a standalone Markdown file.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/gdocsmd/config"
	"github.com/gaurav-prasanna/gdocsmd/core/output"
	"github.com/gaurav-prasanna/gdocsmd/gdocs"
)

// Flag variables.
var (
	flagFileID string
	flagOutput string
	flagPDF    bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Export a Google Doc to patched Markdown",
	Long: `Convert exports a Google Doc, resolves its embedded images, normalizes header
anchors and relinks the table of contents, then writes the Markdown file.

Google APIs are called with Application Default Credentials
(gcloud auth application-default login).

Examples:
  gdocsmd convert -f 1AbC... -o docs/design.md
  gdocsmd convert -f https://docs.google.com/document/d/1AbC.../edit -o out.md --download-images=false
  gdocsmd convert -f 1AbC... -o out.md --images-dir assets --workers 4 --pdf`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&flagFileID, "file-id", "f", "", "Google Doc ID or URL (required)")
	convertCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output Markdown file (required)")
	convertCmd.Flags().String("export", "", "Drive export format: markdown or html")
	convertCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Also render a PDF next to the output (same as --render pdf)")
	addPatchFlags(convertCmd)

	_ = convertCmd.MarkFlagRequired("file-id")
	_ = convertCmd.MarkFlagRequired("output")
}

// addPatchFlags registers the flags shared by every command that patches.
// Their values are read through config.Load.
func addPatchFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("download-images", "d", true, "Download images next to the output instead of linking remote URIs")
	cmd.Flags().StringP("images-dir", "i", "", "Images directory (default: images/ next to the output)")
	cmd.Flags().String("render", "", "Additional output format: markdown, pdf or json")
	cmd.Flags().Int("workers", 0, "Concurrent image downloads (default 1)")
	cmd.Flags().Int("chunk-size", 0, "Words per chunk in JSON sections (default 512)")
	cmd.Flags().Duration("fetch-timeout", 0, "Per-image download timeout (default 30s)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if flagPDF {
		cfg.RenderFormat = "pdf"
	}
	logger := newLogger(cfg)
	ctx := cmd.Context()

	documentID, err := gdocs.ExtractFileID(flagFileID)
	if err != nil {
		return err
	}

	writer, err := output.New(flagOutput)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	p, err := newPipeline(cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	client, err := gdocs.NewDefaultClient(ctx, googleOptions(cfg, logger))
	if err != nil {
		return err
	}
	exporter, err := client.Exporter(cfg.ExportFormat)
	if err != nil {
		return err
	}

	return p.convert(ctx, documentID, exporter, client, writer)
}

// googleOptions maps configuration onto gdocs client options.
func googleOptions(cfg *config.Config, logger *slog.Logger) gdocs.Options {
	return gdocs.Options{
		DriveBaseURL:      cfg.Google.DriveBaseURL,
		DocsBaseURL:       cfg.Google.DocsBaseURL,
		MaxAttempts:       cfg.Google.MaxAttempts,
		RequestsPerSecond: cfg.Google.RequestsPerSecond,
		Logger:            logger,
	}
}
