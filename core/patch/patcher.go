// Package patch turns a raw exported Markdown document into a standalone
// Markdown file. The stages run in a fixed order:
// truncate inline image data → resolve images → normalize headers → relink TOC.
package patch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/gdocsmd/core"
	"github.com/gaurav-prasanna/gdocsmd/core/anchors"
	"github.com/gaurav-prasanna/gdocsmd/core/images"
	"github.com/gaurav-prasanna/gdocsmd/core/toc"
)

// InlineDataSentinel starts the trailing block of base64 image data the
// exporter appends to the document.
const InlineDataSentinel = "[image1]: <data:image/png;base64,"

// Request describes one conversion.
type Request struct {
	Markdown string
	// URIs are the embedded image URIs in document traversal order.
	URIs []string
	// OutputFile is where the caller will write the result.
	OutputFile string
	// ImagesDir enables local image materialization when non-empty.
	ImagesDir string
	// Workers bounds concurrent image downloads.
	Workers int
}

// Result is the patched document plus the anchors its headers resolved to.
type Result struct {
	Markdown string
	Anchors  *anchors.Map
}

// Patcher sequences the patch stages.
type Patcher struct {
	fetcher core.Fetcher
	logger  *slog.Logger
}

// New creates a Patcher. fetcher is only used when images are materialized
// locally and may be nil otherwise.
func New(fetcher core.Fetcher, logger *slog.Logger) *Patcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Patcher{fetcher: fetcher, logger: logger}
}

// Truncate drops everything from the first inline-data sentinel onward.
func Truncate(markdown string) string {
	before, _, _ := strings.Cut(markdown, InlineDataSentinel)
	return before
}

// Patch runs every stage and returns the final Markdown.
func (p *Patcher) Patch(ctx context.Context, req Request) (*Result, error) {
	md := Truncate(req.Markdown)

	var materializer *images.Materializer
	if req.ImagesDir != "" {
		if p.fetcher == nil {
			return nil, fmt.Errorf("resolve images: no fetcher configured for local images")
		}
		materializer = images.NewMaterializer(p.fetcher, p.logger)
	}

	resolver := images.NewResolver(materializer, p.logger)
	md, err := resolver.Resolve(ctx, md, req.URIs, images.Options{
		OutputDir: filepath.Dir(req.OutputFile),
		ImagesDir: req.ImagesDir,
		Workers:   req.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve images: %w", err)
	}

	md, anchorMap := anchors.Normalize(md)
	p.logger.Debug("headers normalized", "headers", anchorMap.Len())

	md = toc.Relink(md, anchorMap)

	return &Result{Markdown: md, Anchors: anchorMap}, nil
}
