// Package render — JSON renderer.
// Builds a structured JSON manifest from the patched Markdown: document
// metadata, the resolved anchor table, header-delimited sections, image
// references and the in-document link report.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/gdocsmd/core"
	"github.com/gaurav-prasanna/gdocsmd/core/anchors"
	"github.com/gaurav-prasanna/gdocsmd/core/chunk"
	"github.com/gaurav-prasanna/gdocsmd/core/outline"
)

// Manifest is the JSON document written by JSONRenderer.
type Manifest struct {
	Metadata core.DocumentMetadata `json:"metadata"`
	Anchors  []anchors.Entry       `json:"anchors"`
	Sections []chunk.Section       `json:"sections"`
	Images   []string              `json:"images"`
	Links    outline.Report        `json:"links"`
	Markdown string                `json:"markdown"`
}

// JSONRenderer produces a structured JSON manifest from Markdown.
type JSONRenderer struct {
	chunker *chunk.Chunker
}

// NewJSONRenderer creates a JSONRenderer that chunks sections longer than
// chunkSize words. chunkSize <= 0 selects chunk.DefaultChunkSize.
func NewJSONRenderer(chunkSize int) *JSONRenderer {
	return &JSONRenderer{chunker: chunk.New(chunkSize)}
}

// Render converts Markdown and metadata into the JSON manifest.
func (r *JSONRenderer) Render(markdown string, meta core.DocumentMetadata) ([]byte, error) {
	m := Manifest{
		Metadata: meta,
		Anchors:  meta.Anchors.Entries(),
		Sections: r.chunker.Sections(markdown, meta.Anchors),
		Images:   imageSources(markdown),
		Links:    outline.Check(markdown, meta.Anchors),
		Markdown: markdown,
	}
	if m.Anchors == nil {
		m.Anchors = []anchors.Entry{}
	}
	if m.Sections == nil {
		m.Sections = []chunk.Section{}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// imageSources returns the src of every <img> tag in document order.
func imageSources(markdown string) []string {
	srcs := []string{}
	for _, match := range imgTagRegex.FindAllStringSubmatch(markdown, -1) {
		srcs = append(srcs, match[1])
	}
	return srcs
}
