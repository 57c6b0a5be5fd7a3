package gdocs

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gaurav-prasanna/gdocsmd/core"
)

// Export formats understood by Exporter.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

var exportMIMETypes = map[string]string{
	FormatMarkdown: "text/markdown",
	FormatHTML:     "text/html",
}

// Exporter exports documents through the Drive files.export endpoint.
type Exporter struct {
	client   *Client
	mimeType string
}

// Exporter returns an Exporter for the given format ("markdown" or "html").
func (c *Client) Exporter(format string) (*Exporter, error) {
	mimeType, ok := exportMIMETypes[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
	return &Exporter{client: c, mimeType: mimeType}, nil
}

// MIMEType returns the export MIME type requested from Drive.
func (e *Exporter) MIMEType() string {
	return e.mimeType
}

// Export returns the exported document body.
func (e *Exporter) Export(ctx context.Context, documentID string) (string, error) {
	reqURL := fmt.Sprintf("%s/files/%s/export?%s",
		e.client.driveBase, url.PathEscape(documentID), url.Values{"mimeType": {e.mimeType}}.Encode())

	e.client.logger.Debug("exporting document", "document_id", documentID, "mime_type", e.mimeType)
	body, err := e.client.get(ctx, reqURL)
	if err != nil {
		return "", fmt.Errorf("%w: export document %s: %w", core.ErrUpstreamFetch, documentID, err)
	}
	return string(body), nil
}
