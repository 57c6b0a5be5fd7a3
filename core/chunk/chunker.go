// Package chunk splits patched Markdown into header-delimited sections and
// breaks long sections into word-bounded chunks for downstream indexing.
package chunk

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/gdocsmd/core/anchors"
)

// DefaultChunkSize is the number of words per chunk when none is given.
const DefaultChunkSize = 512

var headingRegex = regexp.MustCompile(`^(#{1,6})[ \t]+(.+?)[ \t]*$`)

// Section is the text between one header and the next.
type Section struct {
	Heading string   `json:"heading"`
	Level   int      `json:"level"`
	Anchor  string   `json:"anchor,omitempty"`
	Text    string   `json:"text"`
	Words   int      `json:"words"`
	Chunks  []string `json:"chunks,omitempty"`
}

// Chunker splits text into fixed-size word chunks.
type Chunker struct {
	ChunkSize int // number of words per chunk
}

// New creates a Chunker with the given chunk size.
// Defaults to DefaultChunkSize if chunkSize <= 0.
func New(chunkSize int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Chunker{ChunkSize: chunkSize}
}

// Chunk splits the input text into slices of at most ChunkSize words.
// Each chunk is a contiguous block of words joined by spaces.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	for i := 0; i < len(words); i += c.ChunkSize {
		end := min(i+c.ChunkSize, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// Sections splits markdown at ATX headers outside fenced code blocks.
// Text before the first header becomes a level-0 section with an empty
// heading, and is omitted when blank. Anchors are looked up in m by
// heading text. Sections longer than ChunkSize words carry their chunks.
func (c *Chunker) Sections(markdown string, m *anchors.Map) []Section {
	var (
		sections []Section
		current  = Section{}
		body     []string
		inFence  bool
	)

	flush := func() {
		current.Text = strings.TrimSpace(strings.Join(body, "\n"))
		if current.Heading == "" && current.Text == "" {
			return
		}
		current.Words = len(strings.Fields(current.Text))
		if current.Words > c.ChunkSize {
			current.Chunks = c.Chunk(current.Text)
		}
		sections = append(sections, current)
	}

	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
		match := headingRegex.FindStringSubmatch(line)
		if inFence || match == nil {
			body = append(body, line)
			continue
		}

		flush()
		anchor, _ := m.Lookup(match[2])
		current = Section{Heading: match[2], Level: len(match[1]), Anchor: anchor}
		body = nil
	}
	flush()

	return sections
}
