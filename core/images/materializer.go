// Package images resolves numbered image placeholders in exported Markdown
// into <img> references, optionally downloading each image next to the
// output file first.
package images

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/gdocsmd/core"
)

const defaultExtension = "png"

// LocalImage is a file written by the Materializer.
type LocalImage struct {
	// Path is the full path of the written file.
	Path string
	// Name is the base name of the file, extension included.
	Name string
	Size int
}

// Materializer downloads images and persists them to disk.
type Materializer struct {
	fetcher core.Fetcher
	logger  *slog.Logger
}

// NewMaterializer creates a Materializer backed by the given fetcher.
func NewMaterializer(fetcher core.Fetcher, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{fetcher: fetcher, logger: logger}
}

// Extension infers a file extension from the text after the last '.' of
// uri. Anything five characters or longer (query strings, host names,
// path segments) falls back to png, as does a missing or empty suffix or
// one containing a '/'.
func Extension(uri string) string {
	i := strings.LastIndexByte(uri, '.')
	if i < 0 {
		return defaultExtension
	}
	ext := uri[i+1:]
	if ext == "" || len(ext) >= 5 || strings.Contains(ext, "/") {
		return defaultExtension
	}
	return ext
}

// Materialize fetches uri and writes it to destDir/{baseName}.{ext},
// creating destDir when needed. A partially written file is left in place
// when the write fails.
func (m *Materializer) Materialize(ctx context.Context, uri, destDir, baseName string) (*LocalImage, error) {
	name := baseName + "." + Extension(uri)
	path := filepath.Join(destDir, name)

	result, err := m.fetcher.Fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrImageDownload, baseName, err)
	}
	if result == nil || len(result.Body) == 0 {
		return nil, fmt.Errorf("%w: %s: response body is empty", core.ErrImageDownload, baseName)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating directory %s: %w", core.ErrFilesystem, destDir, err)
	}
	if err := os.WriteFile(path, result.Body, 0644); err != nil {
		return nil, fmt.Errorf("%w: writing file %s: %w", core.ErrFilesystem, path, err)
	}

	m.logger.Debug("image materialized",
		"name", name,
		"bytes", len(result.Body),
		"content_type", result.ContentType)

	return &LocalImage{Path: path, Name: name, Size: len(result.Body)}, nil
}
