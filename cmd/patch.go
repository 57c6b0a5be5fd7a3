package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/gdocsmd/core"
	"github.com/gaurav-prasanna/gdocsmd/core/output"
)

var flagURIsFile string

var patchCmd = &cobra.Command{
	Use:   "patch <raw.md>",
	Short: "Patch an already exported Markdown file",
	Long: `Patch runs the patching engine on a Markdown export that is already on disk.
Image URIs are read from --uris, one per line in document order; blank lines
are ignored. Without --uris every image placeholder is left unresolved.

Examples:
  gdocsmd patch export.md --uris uris.txt -o docs/design.md
  gdocsmd patch export.md --uris uris.txt -o out.md --download-images=false --render json`,
	Args: cobra.ExactArgs(1),
	RunE: runPatch,
}

func init() {
	rootCmd.AddCommand(patchCmd)

	patchCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output Markdown file (required)")
	patchCmd.Flags().StringVarP(&flagURIsFile, "uris", "u", "", "File listing image content URIs, one per line")
	addPatchFlags(patchCmd)

	_ = patchCmd.MarkFlagRequired("output")
}

func runPatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", core.ErrFilesystem, args[0], err)
	}

	var uris []string
	if flagURIsFile != "" {
		data, err := os.ReadFile(flagURIsFile)
		if err != nil {
			return fmt.Errorf("%w: reading %s: %w", core.ErrFilesystem, flagURIsFile, err)
		}
		uris = parseURIList(data)
	}
	logger.Debug("patching file", "input", args[0], "uris", len(uris))

	writer, err := output.New(flagOutput)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	p, err := newPipeline(cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return p.finish(cmd.Context(), string(raw), uris, core.DocumentMetadata{}, writer)
}

// parseURIList returns the non-blank, trimmed lines of data.
func parseURIList(data []byte) []string {
	var uris []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			uris = append(uris, line)
		}
	}
	return uris
}
