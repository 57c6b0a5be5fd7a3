// Package render — PDF renderer.
// Converts patched Markdown into a styled PDF using gofpdf.
// Handles headings (variable font sizes), paragraphs, code blocks, lists,
// TOC lines (as internal links to their headings) and local images.
package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/gdocsmd/core"
	"github.com/gaurav-prasanna/gdocsmd/core/toc"
)

var (
	imgTagRegex     = regexp.MustCompile(`<img\s+src="([^"]+)"\s*/?>`)
	anchorLinkRegex = regexp.MustCompile(`\[([^\]]+)\]\(#([^)]+)\)`)
	numberedRegex   = regexp.MustCompile(`^\d+\.\s`)
	italicRegex     = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCodeRegex = regexp.MustCompile("`([^`]+)`")
	linkRegex       = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
)

// supportedImageTypes are the formats gofpdf can embed.
var supportedImageTypes = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
}

// PDFRenderer renders patched Markdown as a PDF document.
type PDFRenderer struct {
	logger *slog.Logger
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer(logger *slog.Logger) *PDFRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFRenderer{logger: logger}
}

// pdfDoc bundles the document being built with its link targets.
type pdfDoc struct {
	*gofpdf.Fpdf
	tr    func(string) string
	links map[string]int // anchor → gofpdf link id
}

// Render converts Markdown into PDF bytes.
func (r *PDFRenderer) Render(markdown string, meta core.DocumentMetadata) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	doc := &pdfDoc{
		Fpdf:  pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		links: make(map[string]int),
	}
	for _, e := range meta.Anchors.Entries() {
		if _, ok := doc.links[e.Anchor]; !ok {
			doc.links[e.Anchor] = pdf.AddLink()
		}
	}

	if meta.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, doc.tr(meta.Title), "", "L", false)
		pdf.Ln(4)
	}

	lines := strings.Split(markdown, "\n")
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			pdf.Ln(2)
			continue
		}

		if inCodeBlock {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, doc.tr(line), "", "L", true)
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			pdf.Ln(3)
			continue
		}

		switch {
		case strings.HasPrefix(line, "#"):
			level := len(line) - len(strings.TrimLeft(line, "#"))
			text := strings.TrimSpace(line[level:])
			r.renderHeading(doc, text, level, meta)

		case imgTagRegex.MatchString(trimmed):
			for _, m := range imgTagRegex.FindAllStringSubmatch(trimmed, -1) {
				r.renderImage(doc, m[1], meta.OutputDir)
			}

		case toc.IsCandidate(line) && anchorLinkRegex.MatchString(line):
			renderLinkLine(doc, trimmed)

		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			pdf.SetFont("Helvetica", "", 10)
			text := "• " + strings.TrimSpace(trimmed[2:])
			pdf.MultiCell(0, 5, doc.tr(cleanInlineMarkdown(text)), "", "L", false)

		case numberedRegex.MatchString(trimmed):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, doc.tr(cleanInlineMarkdown(trimmed)), "", "L", false)

		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, doc.tr(cleanInlineMarkdown(line)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// renderHeading sets the font size based on heading level, registers the
// heading as the target of its anchor's link, and writes the text.
func (r *PDFRenderer) renderHeading(doc *pdfDoc, text string, level int, meta core.DocumentMetadata) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	doc.Ln(4)
	if anchor, ok := meta.Anchors.Lookup(text); ok {
		if id, ok := doc.links[anchor]; ok {
			doc.SetLink(id, -1, -1)
		}
	}
	doc.SetFont("Helvetica", "B", size)
	doc.MultiCell(0, size*0.6, doc.tr(cleanInlineMarkdown(text)), "", "L", false)
	doc.Ln(2)
}

// renderLinkLine writes a TOC-style line, turning every known #anchor link
// into an internal PDF link.
func renderLinkLine(doc *pdfDoc, line string) {
	const lineHeight = 5
	doc.SetFont("Helvetica", "", 10)

	last := 0
	for _, m := range anchorLinkRegex.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > last {
			doc.Write(lineHeight, doc.tr(stripInline(line[last:m[0]])))
		}
		text := doc.tr(line[m[2]:m[3]])
		if id, ok := doc.links[line[m[4]:m[5]]]; ok {
			doc.SetTextColor(20, 60, 160)
			doc.WriteLinkID(lineHeight, text, id)
			doc.SetTextColor(0, 0, 0)
		} else {
			doc.Write(lineHeight, text)
		}
		last = m[1]
	}
	if last < len(line) {
		doc.Write(lineHeight, doc.tr(stripInline(line[last:])))
	}
	doc.Ln(lineHeight)
}

// renderImage embeds a local image referenced relative to baseDir. Remote
// and unsupported images are skipped.
func (r *PDFRenderer) renderImage(doc *pdfDoc, src, baseDir string) {
	if strings.Contains(src, "://") {
		r.logger.Debug("skipping remote image in PDF", "src", src)
		return
	}
	path := filepath.Join(baseDir, filepath.FromSlash(src))
	if !supportedImageTypes[strings.ToLower(filepath.Ext(path))] {
		r.logger.Warn("skipping unsupported image type in PDF", "path", path)
		return
	}

	opt := gofpdf.ImageOptions{ReadDpi: true}
	info := doc.RegisterImageOptions(path, opt)
	if !doc.Ok() || info == nil {
		r.logger.Warn("skipping unreadable image in PDF", "path", path, "error", doc.Error())
		doc.ClearError()
		return
	}

	pageW, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	width := 0.0
	if maxW := pageW - left - right; info.Width() > maxW {
		width = maxW
	}
	doc.ImageOptions(path, -1, 0, width, 0, true, opt, 0, "")
	doc.Ln(2)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	return strings.TrimSpace(stripInline(text))
}

// stripInline removes inline Markdown markup, keeping surrounding spaces.
func stripInline(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italicRegex.ReplaceAllString(text, " $1 ")
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = linkRegex.ReplaceAllString(text, "$1")
	return imgTagRegex.ReplaceAllString(text, "")
}
