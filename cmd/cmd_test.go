package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/gdocsmd/config"
	"github.com/gaurav-prasanna/gdocsmd/core"
	"github.com/gaurav-prasanna/gdocsmd/core/output"
)

type fakeExporter struct {
	body string
	err  error
}

func (f *fakeExporter) Export(ctx context.Context, documentID string) (string, error) {
	return f.body, f.err
}

type fakeReader struct {
	uris   []string
	called bool
}

func (f *fakeReader) ContentURIs(ctx context.Context, documentID string) ([]string, error) {
	f.called = true
	return f.uris, nil
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("image-bytes:" + r.URL.Path))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testPipeline(t *testing.T, cfg *config.Config) (*pipeline, *bytes.Buffer) {
	t.Helper()
	require.NoError(t, cfg.Validate())
	var out bytes.Buffer
	p, err := newPipeline(cfg, slog.New(slog.DiscardHandler), &out)
	require.NoError(t, err)
	return p, &out
}

func TestPipeline_ConvertMarkdownExport(t *testing.T) {
	srv := imageServer(t)
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	p, out := testPipeline(t, cfg)

	writer, err := output.New(filepath.Join(dir, "docs", "design.md"))
	require.NoError(t, err)

	exporter := &fakeExporter{body: "# Design {#h.d1}\n[Design](#h.d1)\n[Usage](#usage)\n\n## Usage\n\n![][image1]\n\n" +
		"[image1]: <data:image/png;base64,AAAA>\n"}
	reader := &fakeReader{uris: []string{srv.URL + "/a.png"}}

	require.NoError(t, p.convert(context.Background(), "doc-1", exporter, reader, writer))
	assert.True(t, reader.called)

	got, err := os.ReadFile(writer.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, "# Design\n[Design](#h.d1)\n[Usage](#usage)\n\n## Usage\n\n<img src=\"images/image1.png\" />\n\n", string(got))

	img, err := os.ReadFile(filepath.Join(dir, "docs", "images", "image1.png"))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes:/a.png", string(img))

	assert.Contains(t, out.String(), "✓ Written: "+writer.OutputFile)
}

func TestPipeline_ConvertHTMLExport(t *testing.T) {
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.ExportFormat = "html"
	cfg.DownloadImages = false
	p, _ := testPipeline(t, cfg)

	writer, err := output.New(filepath.Join(dir, "doc.md"))
	require.NoError(t, err)

	html := `<html><body>
<h1 id="h.abc"><span>Overview</span></h1>
<p><a href="#h.abc">Overview</a></p>
<p><img src="https://lh7.googleusercontent.com/one"></p>
</body></html>`
	reader := &fakeReader{}

	require.NoError(t, p.convert(context.Background(), "doc-1", &fakeExporter{body: html}, reader, writer))
	assert.False(t, reader.called, "html exports carry their own image sources")

	got, err := os.ReadFile(writer.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(got), "# Overview\n")
	assert.NotContains(t, string(got), "{#")
	assert.Contains(t, string(got), "[Overview](#h.abc)")
	assert.Contains(t, string(got), `<img src="https://lh7.googleusercontent.com/one" />`)
}

func TestPipeline_ConvertExportFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	p, _ := testPipeline(t, cfg)

	writer, err := output.New(filepath.Join(t.TempDir(), "doc.md"))
	require.NoError(t, err)

	exportErr := errors.Join(core.ErrUpstreamFetch, errors.New("boom"))
	err = p.convert(context.Background(), "doc-1", &fakeExporter{err: exportErr}, &fakeReader{}, writer)
	assert.ErrorIs(t, err, core.ErrUpstreamFetch)
	assert.NoFileExists(t, writer.OutputFile)
}

func TestPipeline_ImageFailureWritesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	p, _ := testPipeline(t, cfg)

	writer, err := output.New(filepath.Join(t.TempDir(), "doc.md"))
	require.NoError(t, err)

	err = p.finish(context.Background(), "![][image1]", []string{srv.URL + "/x.png"}, core.DocumentMetadata{}, writer)
	assert.ErrorIs(t, err, core.ErrImageDownload)
	assert.NoFileExists(t, writer.OutputFile)
}

func TestPipeline_RendersSiblingOutputs(t *testing.T) {
	for _, tc := range []struct {
		format string
		ext    string
	}{
		{"pdf", ".pdf"},
		{"json", ".json"},
	} {
		t.Run(tc.format, func(t *testing.T) {
			dir := t.TempDir()
			cfg := config.DefaultConfig()
			cfg.RenderFormat = tc.format
			cfg.DownloadImages = false
			p, out := testPipeline(t, cfg)

			writer, err := output.New(filepath.Join(dir, "doc.md"))
			require.NoError(t, err)

			require.NoError(t, p.finish(context.Background(), "# Title\n[Title](#title)\n", nil, core.DocumentMetadata{}, writer))

			assert.FileExists(t, filepath.Join(dir, "doc.md"))
			assert.FileExists(t, filepath.Join(dir, "doc"+tc.ext))
			assert.Contains(t, out.String(), "doc"+tc.ext)
		})
	}
}

func TestDocumentTitle(t *testing.T) {
	assert.Equal(t, "design", documentTitle(nil, "/out/design.md"))
}

func TestParseURIList(t *testing.T) {
	got := parseURIList([]byte("https://a\n\n  https://b  \r\n"))
	assert.Equal(t, []string{"https://a", "https://b"}, got)
}

// executeCommand runs the root command with args and returns its stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPatchCommand(t *testing.T) {
	srv := imageServer(t)
	dir := t.TempDir()

	cfgFile := filepath.Join(dir, "gdocsmd.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("log_level: error\n"), 0644))

	input := filepath.Join(dir, "export.md")
	require.NoError(t, os.WriteFile(input, []byte("# A {#a1}\n[A](#a1)\n![][image1]\n"), 0644))
	uris := filepath.Join(dir, "uris.txt")
	require.NoError(t, os.WriteFile(uris, []byte(srv.URL+"/pic.jpg\n"), 0644))

	target := filepath.Join(dir, "site", "a.md")
	out, err := executeCommand(t, "patch", input,
		"--config", cfgFile,
		"--uris", uris,
		"--output", target,
		"--images-dir", filepath.Join(dir, "site", "assets"),
	)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Written: "+target)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "# A\n[A](#a1)\n<img src=\"assets/image1.jpg\" />\n", string(got))
	assert.FileExists(t, filepath.Join(dir, "site", "assets", "image1.jpg"))
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gdocsmd.yaml")

	out, err := executeCommand(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, err = executeCommand(t, "config", "init", path)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gdocsmd "+Version)
}
