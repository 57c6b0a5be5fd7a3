// Package core defines the pipeline interfaces for gdocsmd.
// Each collaborator of the patching engine is a small, testable interface.
package core

import (
	"context"

	"github.com/gaurav-prasanna/gdocsmd/core/anchors"
)

// FetchResult holds the raw bytes and response metadata from a fetch.
type FetchResult struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// DocumentMetadata describes the document being converted and where its
// output lands on disk.
type DocumentMetadata struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	OutputFile string `json:"output_file"`
	OutputDir  string `json:"output_dir"`
	ExportedAt string `json:"exported_at"` // ISO8601

	// Anchors maps header text to the anchors TOC links were relinked to.
	Anchors *anchors.Map `json:"-"`
}

// Fetcher retrieves the full byte stream behind a URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (*FetchResult, error)
}

// Exporter exports a hosted document to a raw Markdown (or HTML) string.
type Exporter interface {
	Export(ctx context.Context, documentID string) (string, error)
}

// StructureReader enumerates the embedded image URIs of a hosted document
// in document traversal order.
type StructureReader interface {
	ContentURIs(ctx context.Context, documentID string) ([]string, error)
}

// Renderer converts the final Markdown (and metadata) into an output format.
type Renderer interface {
	Render(markdown string, meta DocumentMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
