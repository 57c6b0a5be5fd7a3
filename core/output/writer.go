// Package output handles file placement and writing for gdocsmd outputs.
// The Markdown file goes where the user asked; rendered siblings (e.g. PDF)
// share its base name; downloaded images default to an images/ directory
// next to it.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/gdocsmd/core"
)

// DefaultImagesDirName is the images directory created next to the output
// file when none is configured.
const DefaultImagesDirName = "images"

// Writer writes rendered output to disk.
type Writer struct {
	// OutputFile is the absolute path of the Markdown output.
	OutputFile string
}

// New creates a Writer for the given output file, resolving it to an
// absolute path and creating its parent directory.
func New(outputFile string) (*Writer, error) {
	if outputFile == "" {
		return nil, fmt.Errorf("output file is required")
	}
	abs, err := filepath.Abs(outputFile)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving output path: %w", core.ErrFilesystem, err)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return nil, fmt.Errorf("%w: creating output directory: %w", core.ErrFilesystem, err)
	}

	return &Writer{OutputFile: abs}, nil
}

// Dir returns the directory holding the output file.
func (w *Writer) Dir() string {
	return filepath.Dir(w.OutputFile)
}

// ImagesDir resolves the directory downloaded images are written to.
// An empty configured value selects images/ next to the output file;
// relative values are resolved against the working directory.
func (w *Writer) ImagesDir(configured string) (string, error) {
	if configured == "" {
		return filepath.Join(w.Dir(), DefaultImagesDirName), nil
	}
	abs, err := filepath.Abs(configured)
	if err != nil {
		return "", fmt.Errorf("%w: resolving images directory: %w", core.ErrFilesystem, err)
	}
	return abs, nil
}

// PathFor returns the output path for a renderer extension. The Markdown
// extension maps to the output file itself; other extensions replace it.
func (w *Writer) PathFor(ext string) string {
	if ext == "" || ext == ".md" {
		return w.OutputFile
	}
	return strings.TrimSuffix(w.OutputFile, filepath.Ext(w.OutputFile)) + ext
}

// Write writes data for the given renderer extension and returns the path.
func (w *Writer) Write(data []byte, ext string) (string, error) {
	path := w.PathFor(ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: writing file %s: %w", core.ErrFilesystem, path, err)
	}
	return path, nil
}
