package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/gdocsmd/core/anchors"
)

func TestCheck(t *testing.T) {
	md := "# Intro\n\n[Intro](#intro)\n\n[Missing](#nowhere)\n\n[Site](https://example.com)\n"
	_, known := anchors.Normalize(md)

	report := Check(md, known)

	assert.Equal(t, 2, report.Links)
	require.Len(t, report.Dangling, 1)
	assert.Equal(t, DanglingLink{Text: "Missing", Anchor: "nowhere", Line: 5}, report.Dangling[0])
}

func TestCheck_IgnoresCode(t *testing.T) {
	md := "# A\n\n```\n[x](#missing)\n```\n\n`[y](#missing)`\n"
	_, known := anchors.Normalize(md)

	report := Check(md, known)
	assert.Equal(t, 0, report.Links)
	assert.Empty(t, report.Dangling)
}

func TestCheck_NoHeaders(t *testing.T) {
	report := Check("[a](#b)", nil)
	assert.Equal(t, 1, report.Links)
	require.Len(t, report.Dangling, 1)
	assert.Equal(t, 1, report.Dangling[0].Line)
}
