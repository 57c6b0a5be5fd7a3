// Package extract prepares an HTML document export for Markdown conversion.
// It isolates the document body and replaces constructs the converter would
// lose with plain-text markers:
//  1. every <img> becomes a numbered image marker, its src collected in order
//  2. every heading id is appended to the heading as an anchor marker
//
// The normalize package turns the markers back into Markdown syntax.
package extract

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are elements removed before conversion.
var noiseSelectors = []string{
	"script", "style", "noscript", "meta", "link", "title",
}

// Markers only use letters and digits so the Markdown converter never
// escapes them.
const (
	imageMarkerPrefix  = "gdocsmdimage"
	imageMarkerSuffix  = "placeholder"
	anchorMarkerPrefix = "gdocsmdanchor"
	anchorMarkerSuffix = "z"
)

var (
	imageMarkerPattern  = regexp.MustCompile(imageMarkerPrefix + `(\d+)` + imageMarkerSuffix)
	anchorMarkerPattern = regexp.MustCompile(`[ \t]*` + anchorMarkerPrefix + `([0-9a-f]+)` + anchorMarkerSuffix)
)

// ImageMarker returns the marker standing in for the i-th (1-based) image.
func ImageMarker(i int) string {
	return imageMarkerPrefix + strconv.Itoa(i) + imageMarkerSuffix
}

// AnchorMarker returns the marker carrying a heading id.
func AnchorMarker(id string) string {
	return anchorMarkerPrefix + hex.EncodeToString([]byte(id)) + anchorMarkerSuffix
}

// RestoreMarkers rewrites image markers into ![][imageN] placeholders and
// anchor markers into trailing {#id} annotations.
func RestoreMarkers(markdown string) string {
	markdown = imageMarkerPattern.ReplaceAllString(markdown, "![][image$1]")
	return anchorMarkerPattern.ReplaceAllStringFunc(markdown, func(m string) string {
		sub := anchorMarkerPattern.FindStringSubmatch(m)
		id, err := hex.DecodeString(sub[1])
		if err != nil {
			return m
		}
		return " {#" + string(id) + "}"
	})
}

// Extraction is the cleaned HTML and the image sources it referenced.
type Extraction struct {
	HTML string
	// ImageURIs holds each <img> src in document order; the i-th entry
	// belongs to ImageMarker(i+1).
	ImageURIs []string
}

// HTMLExtractor cleans exported HTML documents.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract returns the body of an exported HTML document with images and
// heading ids replaced by markers.
func (e *HTMLExtractor) Extract(html string) (*Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	content := doc.Find("body").First()
	if content.Length() == 0 {
		return nil, fmt.Errorf("no body found in HTML")
	}

	var uris []string
	content.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		uris = append(uris, src)
		s.ReplaceWithHtml(ImageMarker(len(uris)))
	})

	content.Find("h1[id], h2[id], h3[id], h4[id], h5[id], h6[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		if id = strings.TrimSpace(id); id != "" {
			s.AppendHtml(" " + AnchorMarker(id))
		}
	})

	content.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if target := unwrapRedirect(href); target != href {
			s.SetAttr("href", target)
		}
	})

	result, err := content.Html()
	if err != nil {
		return nil, fmt.Errorf("serializing content: %w", err)
	}

	return &Extraction{HTML: result, ImageURIs: uris}, nil
}

// unwrapRedirect returns the real target of a https://www.google.com/url?q=
// tracking link, or href unchanged.
func unwrapRedirect(href string) string {
	parsed, err := url.Parse(href)
	if err != nil || parsed.Host != "www.google.com" || parsed.Path != "/url" {
		return href
	}
	if q := parsed.Query().Get("q"); q != "" {
		return q
	}
	return href
}
