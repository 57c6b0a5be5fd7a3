package images

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/gdocsmd/core"
)

// Placeholder returns the token the exporter emits for the i-th (1-based)
// embedded image.
func Placeholder(i int) string {
	return fmt.Sprintf("![][image%d]", i)
}

// BaseName returns the file base name used for the i-th (1-based) image.
func BaseName(i int) string {
	return fmt.Sprintf("image%d", i)
}

// Reference renders an inline image reference for src.
func Reference(src string) string {
	return `<img src="` + src + `" />`
}

// Options controls how placeholders are resolved.
type Options struct {
	// OutputDir is the directory of the output Markdown file. Local image
	// references are relative to it.
	OutputDir string
	// ImagesDir enables local materialization when non-empty.
	ImagesDir string
	// Workers bounds concurrent downloads. Values below 2 download
	// sequentially in placeholder order.
	Workers int
}

// Resolver substitutes image placeholders with image references.
type Resolver struct {
	materializer *Materializer
	logger       *slog.Logger
}

// NewResolver creates a Resolver. The materializer may be nil when only
// remote references are produced.
func NewResolver(materializer *Materializer, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{materializer: materializer, logger: logger}
}

// Resolve replaces ![][imageN] with the N-th URI for N = 1..len(uris). The
// link between placeholder and URI is purely positional. Placeholders past
// the end of uris stay as they are. With local materialization enabled,
// every URI is downloaded, even one no placeholder refers to.
func (r *Resolver) Resolve(ctx context.Context, markdown string, uris []string, opts Options) (string, error) {
	if len(uris) == 0 {
		return markdown, nil
	}

	refs := uris
	if opts.ImagesDir != "" {
		var err error
		refs, err = r.materializeAll(ctx, uris, opts)
		if err != nil {
			return "", err
		}
	}

	for i, ref := range refs {
		token := Placeholder(i + 1)
		if !strings.Contains(markdown, token) {
			r.logger.Debug("image has no placeholder in document", "index", i+1)
			continue
		}
		markdown = strings.ReplaceAll(markdown, token, Reference(ref))
	}
	return markdown, nil
}

// materializeAll downloads every URI and returns the references to use, in
// placeholder order regardless of download completion order.
func (r *Resolver) materializeAll(ctx context.Context, uris []string, opts Options) ([]string, error) {
	if r.materializer == nil {
		return nil, fmt.Errorf("images directory set but no materializer configured")
	}

	outputDir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving output directory: %w", core.ErrFilesystem, err)
	}
	imagesDir, err := filepath.Abs(opts.ImagesDir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving images directory: %w", core.ErrFilesystem, err)
	}
	rel, err := filepath.Rel(outputDir, imagesDir)
	if err != nil {
		return nil, fmt.Errorf("%w: relating %s to %s: %w", core.ErrFilesystem, imagesDir, outputDir, err)
	}

	refs := make([]string, len(uris))
	fetch := func(ctx context.Context, i int) error {
		img, err := r.materializer.Materialize(ctx, uris[i], imagesDir, BaseName(i+1))
		if err != nil {
			return fmt.Errorf("image %d: %w", i+1, err)
		}
		refs[i] = strings.ReplaceAll(filepath.Join(rel, img.Name), `\`, "/")
		r.logger.Info("downloaded image", "index", i+1, "total", len(uris), "path", img.Path)
		return nil
	}

	if opts.Workers < 2 {
		for i := range uris {
			if err := fetch(ctx, i); err != nil {
				return nil, err
			}
		}
		return refs, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range uris {
		g.Go(func() error { return fetch(gctx, i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return refs, nil
}
