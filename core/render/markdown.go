// Package render provides output renderers for patched documents.
// This file implements the Markdown renderer, which is a simple passthrough.
package render

import (
	"fmt"
	"log/slog"

	"github.com/gaurav-prasanna/gdocsmd/core"
)

// MarkdownRenderer writes Markdown as-is; the patched text is already the
// final artifact.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the Markdown as bytes (passthrough).
func (r *MarkdownRenderer) Render(markdown string, meta core.DocumentMetadata) ([]byte, error) {
	return []byte(markdown), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// Options configures the renderers built by ForFormat.
type Options struct {
	Logger *slog.Logger
	// ChunkSize bounds the words per chunk in JSON sections.
	ChunkSize int
}

// ForFormat returns the renderer for a configured render format.
func ForFormat(format string, opts Options) (core.Renderer, error) {
	switch format {
	case "", "markdown", "md":
		return NewMarkdownRenderer(), nil
	case "pdf":
		return NewPDFRenderer(opts.Logger), nil
	case "json":
		return NewJSONRenderer(opts.ChunkSize), nil
	default:
		return nil, fmt.Errorf("unsupported render format: %s", format)
	}
}
