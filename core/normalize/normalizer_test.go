package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/gdocsmd/core/extract"
)

func TestNormalize_RestoresPlaceholdersAndAnchors(t *testing.T) {
	html := "<h1>Overview " + extract.AnchorMarker("h.abc123") + "</h1>" +
		"<p>Intro text.</p>" +
		"<p>" + extract.ImageMarker(1) + "</p>"

	md, err := New().Normalize(html)
	require.NoError(t, err)

	assert.Contains(t, md, "# Overview {#h.abc123}")
	assert.Contains(t, md, "Intro text.")
	assert.Contains(t, md, "![][image1]")
}

func TestNormalize_ExtractedDocument(t *testing.T) {
	ex, err := extract.New().Extract(`<html><body>
<h2 id="h.x1">Setup</h2><p><img src="https://e.com/a.png"></p></body></html>`)
	require.NoError(t, err)

	md, err := New().Normalize(ex.HTML)
	require.NoError(t, err)

	assert.Contains(t, md, "## Setup {#h.x1}")
	assert.Contains(t, md, "![][image1]")
	assert.Equal(t, []string{"https://e.com/a.png"}, ex.ImageURIs)
}
