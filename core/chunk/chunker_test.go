package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/gdocsmd/core/anchors"
)

func TestChunk(t *testing.T) {
	c := New(3)
	assert.Equal(t, []string{"a b c", "d e"}, c.Chunk("a  b\nc d\te"))
	assert.Nil(t, c.Chunk("   "))
	assert.Equal(t, DefaultChunkSize, New(0).ChunkSize)
}

func TestSections(t *testing.T) {
	md, m := anchors.Normalize("preface line\n\n# Intro {#h.intro}\nhello world\n\n## Setup\n```\n# not a header\n```\nrun it\n")

	sections := New(100).Sections(md, m)
	require.Len(t, sections, 3)

	assert.Equal(t, Section{Text: "preface line", Words: 2}, sections[0])

	assert.Equal(t, "Intro", sections[1].Heading)
	assert.Equal(t, 1, sections[1].Level)
	assert.Equal(t, "h.intro", sections[1].Anchor)
	assert.Equal(t, "hello world", sections[1].Text)

	assert.Equal(t, "Setup", sections[2].Heading)
	assert.Equal(t, 2, sections[2].Level)
	assert.Equal(t, "setup", sections[2].Anchor)
	assert.Contains(t, sections[2].Text, "# not a header")
	assert.Nil(t, sections[2].Chunks)
}

func TestSections_ChunksLongSections(t *testing.T) {
	md := "# Long\n" + strings.Repeat("word ", 7)
	sections := New(3).Sections(md, nil)

	require.Len(t, sections, 1)
	assert.Equal(t, 7, sections[0].Words)
	assert.Equal(t, []string{"word word word", "word word word", "word"}, sections[0].Chunks)
	assert.Empty(t, sections[0].Anchor)
}

func TestSections_EmptyDocument(t *testing.T) {
	assert.Empty(t, New(0).Sections("", nil))
}
