package anchors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Getting Started!", "getting-started"},
		{"  Multiple   Spaces ", "multiple-spaces"},
		{"Q & A", "q-a"},
		{"Trailing ---", "trailing"},
		{"Version 2.0 Notes", "version-20-notes"},
		{"already-hyphenated", "already-hyphenated"},
		{"Ünïcode Title", "ncode-title"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestLooseSlug(t *testing.T) {
	assert.Equal(t, "getting-started-", LooseSlug("Getting Started!"))
	assert.Equal(t, "a-b-c", LooseSlug("A  b/c"))
	assert.Equal(t, "-intro", LooseSlug("(Intro"))
}

func TestNormalize_ExplicitAnchor(t *testing.T) {
	out, m := Normalize("# Title {#t1}\nbody")

	assert.Equal(t, "# Title\nbody", out)
	anchor, ok := m.Lookup("Title")
	require.True(t, ok)
	assert.Equal(t, "t1", anchor)
}

func TestNormalize_ExplicitOverridesSlug(t *testing.T) {
	_, m := Normalize("## Getting Started! {#custom-id}")

	anchor, ok := m.Lookup("Getting Started!")
	require.True(t, ok)
	assert.Equal(t, "custom-id", anchor)
}

func TestNormalize_ComputedAnchor(t *testing.T) {
	out, m := Normalize("###   Getting Started!   \ntext")

	assert.Equal(t, "### Getting Started!\ntext", out)
	anchor, _ := m.Lookup("Getting Started!")
	assert.Equal(t, "getting-started", anchor)
}

func TestNormalize_GoogleStyleAnchor(t *testing.T) {
	out, m := Normalize("# **Overview** {#h.abc123xyz}\n\nIntro.\n\n## Details { #h.def }\n")

	assert.Equal(t, "# **Overview**\n\nIntro.\n\n## Details\n", out)
	a, _ := m.Lookup("**Overview**")
	assert.Equal(t, "h.abc123xyz", a)
	a, _ = m.Lookup("Details")
	assert.Equal(t, "h.def", a)
}

func TestNormalize_KeepsBlankLinesAfterHeaders(t *testing.T) {
	in := "# One\n\n\nParagraph\n## Two\n\nMore"
	out, _ := Normalize(in)
	assert.Equal(t, in, out)
}

func TestNormalize_CRLFLineEndings(t *testing.T) {
	out, m := Normalize("# Title {#t1}\r\nBody\r\n## Next Part \r\n\r\nMore")

	assert.Equal(t, "# Title\r\nBody\r\n## Next Part\r\n\r\nMore", out)
	assert.Equal(t, []Entry{
		{Text: "Title", Anchor: "t1"},
		{Text: "Next Part", Anchor: "next-part"},
	}, m.Entries())
}

func TestNormalize_DuplicateTextLastWriteWins(t *testing.T) {
	_, m := Normalize("# Setup {#first}\n## Other\n# Setup {#second}")

	assert.Equal(t, 2, m.Len())
	a, _ := m.Lookup("Setup")
	assert.Equal(t, "second", a)

	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Text: "Setup", Anchor: "second"}, entries[0])
	assert.Equal(t, Entry{Text: "Other", Anchor: "other"}, entries[1])
}

func TestNormalize_MissingSpaceAfterHashes(t *testing.T) {
	out, m := Normalize("##Compact")
	assert.Equal(t, "## Compact", out)
	a, _ := m.Lookup("Compact")
	assert.Equal(t, "compact", a)
}

func TestNormalize_NoHeaders(t *testing.T) {
	in := "plain text\nwith [a](#b) link"
	out, m := Normalize(in)
	assert.Equal(t, in, out)
	assert.Equal(t, 0, m.Len())
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Run("already normalized text", func(t *testing.T) {
		in := "# Title\n\nSome text\n\n## Getting Started!\n### Sub\n[Title](#title)\n"
		first, firstMap := Normalize(in)
		second, secondMap := Normalize(first)

		assert.Equal(t, in, first)
		assert.Equal(t, first, second)
		assert.Equal(t, firstMap.Entries(), secondMap.Entries())
	})

	t.Run("annotated text settles after one pass", func(t *testing.T) {
		first, _ := Normalize("# Title {#t1}\n### Sub  {#sub-x}\n")
		second, _ := Normalize(first)

		assert.Equal(t, "# Title\n### Sub\n", first)
		assert.Equal(t, first, second)
	})
}

func TestMap_HasAnchor(t *testing.T) {
	_, m := Normalize("# Alpha\n# Beta {#b}")
	assert.True(t, m.HasAnchor("alpha"))
	assert.True(t, m.HasAnchor("b"))
	assert.False(t, m.HasAnchor("beta"))

	var nilMap *Map
	assert.False(t, nilMap.HasAnchor("x"))
	assert.Equal(t, 0, nilMap.Len())
}
