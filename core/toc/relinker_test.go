package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gaurav-prasanna/gdocsmd/core/anchors"
)

func anchorMap(t *testing.T, headers string) *anchors.Map {
	t.Helper()
	_, m := anchors.Normalize(headers)
	return m
}

func TestRelink_ByLinkText(t *testing.T) {
	m := anchorMap(t, "# Intro")
	assert.Equal(t, "[Intro](#intro)", Relink("[Intro](#old)", m))
}

func TestRelink_CaseInsensitiveText(t *testing.T) {
	m := anchorMap(t, "# Getting Started {#h.gs}")
	assert.Equal(t, "  [getting STARTED](#h.gs)", Relink("  [getting STARTED](#whatever)", m))
}

func TestRelink_BySlugFallback(t *testing.T) {
	m := anchorMap(t, "## Set-up & Install {#h.install}")
	// Link text differs, but the stored anchor matches the loose slug.
	assert.Equal(t, "[Installation](#h.install)", Relink("[Installation](#set-up-install)", m))
}

func TestRelink_TextMatchPreferredOverSlug(t *testing.T) {
	m := anchorMap(t, "# Alpha {#a1}\n# Beta {#b1}")
	// oldAnchor slug-matches Alpha, but the link text names Beta.
	assert.Equal(t, "[Beta](#b1)", Relink("[Beta](#alpha)", m))
}

func TestRelink_UnknownLeftUnchanged(t *testing.T) {
	m := anchorMap(t, "# Intro")
	assert.Equal(t, "[Unknown Section](#unknown)", Relink("[Unknown Section](#unknown)", m))
}

func TestRelink_NonCandidateLinesUntouched(t *testing.T) {
	m := anchorMap(t, "# Intro")
	in := "See [Intro](#old) for details\n- [Intro](#old)"
	assert.Equal(t, in, Relink(in, m))
}

func TestRelink_MultipleLinksOnOneLine(t *testing.T) {
	m := anchorMap(t, "# One\n# Two")
	assert.Equal(t, "[One](#one) | [Two](#two) | [Three](#three)",
		Relink("[One](#x) | [Two](#y) | [Three](#three)", m))
}

func TestRelink_DuplicateHeadersResolveToLast(t *testing.T) {
	m := anchorMap(t, "# Setup {#first}\n# Setup {#second}")
	assert.Equal(t, "[Setup](#second)", Relink("[Setup](#first)", m))
}

func TestRelink_ExternalLinksIgnored(t *testing.T) {
	m := anchorMap(t, "# Intro")
	in := "[Intro](https://example.com/#intro)"
	assert.Equal(t, in, Relink(in, m))
}

func TestRelink_EmptyMap(t *testing.T) {
	in := "[Intro](#old)"
	assert.Equal(t, in, Relink(in, anchorMap(t, "no headers")))
}

func TestIsCandidate(t *testing.T) {
	assert.True(t, IsCandidate("[a](#b)"))
	assert.True(t, IsCandidate("\t  [a](#b)"))
	assert.False(t, IsCandidate("* [a](#b)"))
	assert.False(t, IsCandidate("text [a](#b)"))
	assert.False(t, IsCandidate(""))
}

func TestResolve_ReportsMiss(t *testing.T) {
	m := anchorMap(t, "# Intro")
	anchor, ok := Resolve("Other", "other", m)
	assert.False(t, ok)
	assert.Equal(t, "other", anchor)
}
