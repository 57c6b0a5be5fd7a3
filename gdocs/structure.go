package gdocs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gaurav-prasanna/gdocsmd/core"
)

// Document is the subset of the Docs API document resource needed to
// enumerate embedded images.
type Document struct {
	DocumentID    string                  `json:"documentId"`
	Title         string                  `json:"title"`
	Body          Body                    `json:"body"`
	InlineObjects map[string]InlineObject `json:"inlineObjects"`
}

type Body struct {
	Content []StructuralElement `json:"content"`
}

// StructuralElement is a paragraph, table or other block in a body or a
// table cell. Only paragraphs and tables are inspected.
type StructuralElement struct {
	Paragraph *Paragraph `json:"paragraph,omitempty"`
	Table     *Table     `json:"table,omitempty"`
}

type Paragraph struct {
	Elements []ParagraphElement `json:"elements"`
}

type ParagraphElement struct {
	InlineObjectElement *InlineObjectElement `json:"inlineObjectElement,omitempty"`
}

type InlineObjectElement struct {
	InlineObjectID string `json:"inlineObjectId"`
}

type Table struct {
	TableRows []TableRow `json:"tableRows"`
}

type TableRow struct {
	TableCells []TableCell `json:"tableCells"`
}

type TableCell struct {
	Content []StructuralElement `json:"content"`
}

type InlineObject struct {
	InlineObjectProperties struct {
		EmbeddedObject struct {
			ImageProperties *struct {
				ContentURI string `json:"contentUri"`
			} `json:"imageProperties,omitempty"`
		} `json:"embeddedObject"`
	} `json:"inlineObjectProperties"`
}

// ContentURI returns the image content URI, or "" when the object is not
// an image.
func (o InlineObject) ContentURI() string {
	if p := o.InlineObjectProperties.EmbeddedObject.ImageProperties; p != nil {
		return p.ContentURI
	}
	return ""
}

// ImageURIs lists the content URIs of inline images in document order,
// descending into table cells. Objects without an image content URI are
// skipped.
func (d *Document) ImageURIs() []string {
	var uris []string
	var walk func(content []StructuralElement)
	walk = func(content []StructuralElement) {
		for _, el := range content {
			switch {
			case el.Paragraph != nil:
				for _, pe := range el.Paragraph.Elements {
					if pe.InlineObjectElement == nil {
						continue
					}
					obj, ok := d.InlineObjects[pe.InlineObjectElement.InlineObjectID]
					if !ok {
						continue
					}
					if uri := obj.ContentURI(); uri != "" {
						uris = append(uris, uri)
					}
				}
			case el.Table != nil:
				for _, row := range el.Table.TableRows {
					for _, cell := range row.TableCells {
						walk(cell.Content)
					}
				}
			}
		}
	}
	walk(d.Body.Content)
	return uris
}

// Document fetches the document resource from the Docs API.
func (c *Client) Document(ctx context.Context, documentID string) (*Document, error) {
	reqURL := fmt.Sprintf("%s/documents/%s", c.docsBase, url.PathEscape(documentID))

	c.logger.Debug("fetching document structure", "document_id", documentID)
	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch document %s: %w", core.ErrUpstreamFetch, documentID, err)
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding document %s: %w", core.ErrUpstreamFetch, documentID, err)
	}
	return &doc, nil
}

// ContentURIs implements core.StructureReader.
func (c *Client) ContentURIs(ctx context.Context, documentID string) ([]string, error) {
	doc, err := c.Document(ctx, documentID)
	if err != nil {
		return nil, err
	}
	uris := doc.ImageURIs()
	c.logger.Debug("enumerated embedded images", "document_id", documentID, "count", len(uris))
	return uris, nil
}
