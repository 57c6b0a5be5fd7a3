package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gaurav-prasanna/gdocsmd/config"
	"github.com/gaurav-prasanna/gdocsmd/core"
	"github.com/gaurav-prasanna/gdocsmd/core/anchors"
	"github.com/gaurav-prasanna/gdocsmd/core/extract"
	"github.com/gaurav-prasanna/gdocsmd/core/fetch"
	"github.com/gaurav-prasanna/gdocsmd/core/normalize"
	"github.com/gaurav-prasanna/gdocsmd/core/outline"
	"github.com/gaurav-prasanna/gdocsmd/core/output"
	"github.com/gaurav-prasanna/gdocsmd/core/patch"
	"github.com/gaurav-prasanna/gdocsmd/core/render"
	"github.com/gaurav-prasanna/gdocsmd/gdocs"
)

// pipeline holds the collaborators shared by convert and patch:
// export → (html: extract → normalize) → patch → write → render → verify.
type pipeline struct {
	cfg      *config.Config
	fetcher  core.Fetcher
	renderer core.Renderer
	logger   *slog.Logger
	out      io.Writer
}

func newPipeline(cfg *config.Config, logger *slog.Logger, out io.Writer) (*pipeline, error) {
	renderer, err := render.ForFormat(cfg.RenderFormat, render.Options{
		Logger:    logger,
		ChunkSize: cfg.ChunkSize,
	})
	if err != nil {
		return nil, err
	}
	return &pipeline{
		cfg: cfg,
		fetcher: fetch.New(
			fetch.WithTimeout(cfg.FetchTimeout),
			fetch.WithUserAgent(cfg.UserAgent),
		),
		renderer: renderer,
		logger:   logger,
		out:      out,
	}, nil
}

// convert exports a hosted document and runs it through the pipeline.
func (p *pipeline) convert(
	ctx context.Context,
	documentID string,
	exporter core.Exporter,
	reader core.StructureReader,
	writer *output.Writer,
) error {
	p.logger.Info("exporting document", "document_id", documentID, "format", p.cfg.ExportFormat)

	raw, err := exporter.Export(ctx, documentID)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	var uris []string
	if p.cfg.ExportFormat == gdocs.FormatHTML {
		raw, uris, err = htmlToMarkdown(raw)
		if err != nil {
			return err
		}
	} else {
		uris, err = reader.ContentURIs(ctx, documentID)
		if err != nil {
			return fmt.Errorf("read structure: %w", err)
		}
	}

	return p.finish(ctx, raw, uris, core.DocumentMetadata{DocumentID: documentID}, writer)
}

// htmlToMarkdown converts an HTML export into placeholder Markdown and
// returns the image sources in placeholder order.
func htmlToMarkdown(html string) (string, []string, error) {
	extraction, err := extract.New().Extract(html)
	if err != nil {
		return "", nil, fmt.Errorf("extract: %w", err)
	}
	markdown, err := normalize.New().Normalize(extraction.HTML)
	if err != nil {
		return "", nil, fmt.Errorf("normalize: %w", err)
	}
	return markdown, extraction.ImageURIs, nil
}

// finish patches raw Markdown, writes it, renders any sibling output and
// reports in-document links that point at no header.
func (p *pipeline) finish(
	ctx context.Context,
	raw string,
	uris []string,
	meta core.DocumentMetadata,
	writer *output.Writer,
) error {
	var imagesDir string
	if p.cfg.DownloadImages {
		dir, err := writer.ImagesDir(p.cfg.ImagesDir)
		if err != nil {
			return err
		}
		imagesDir = dir
	}

	result, err := patch.New(p.fetcher, p.logger).Patch(ctx, patch.Request{
		Markdown:   raw,
		URIs:       uris,
		OutputFile: writer.OutputFile,
		ImagesDir:  imagesDir,
		Workers:    p.cfg.Workers,
	})
	if err != nil {
		return fmt.Errorf("patch: %w", err)
	}

	path, err := writer.Write([]byte(result.Markdown), ".md")
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "✓ Written: %s\n", path)

	meta.OutputFile = writer.OutputFile
	meta.OutputDir = writer.Dir()
	meta.ExportedAt = time.Now().UTC().Format(time.RFC3339)
	meta.Anchors = result.Anchors
	if meta.Title == "" {
		meta.Title = documentTitle(result.Anchors, writer.OutputFile)
	}

	if ext := p.renderer.Extension(); ext != ".md" {
		data, err := p.renderer.Render(result.Markdown, meta)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		path, err := writer.Write(data, ext)
		if err != nil {
			return err
		}
		fmt.Fprintf(p.out, "✓ Written: %s\n", path)
	}

	report := outline.Check(result.Markdown, result.Anchors)
	for _, d := range report.Dangling {
		p.logger.Warn("link target not found", "text", d.Text, "anchor", d.Anchor, "line", d.Line)
	}
	p.logger.Debug("outline checked", "links", report.Links, "dangling", len(report.Dangling))

	return nil
}

// documentTitle uses the first header, falling back to the output file's
// base name.
func documentTitle(m *anchors.Map, outputFile string) string {
	if entries := m.Entries(); len(entries) > 0 && entries[0].Text != "" {
		return entries[0].Text
	}
	base := filepath.Base(outputFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
