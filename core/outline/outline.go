// Package outline inspects a patched document for in-document links that
// point at anchors no header produces.
package outline

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/gaurav-prasanna/gdocsmd/core/anchors"
)

// DanglingLink is an in-document link whose anchor matches no header.
type DanglingLink struct {
	Text   string `json:"text"`
	Anchor string `json:"anchor"`
	// Line is the 1-based line of the block holding the link.
	Line int `json:"line"`
}

// Report summarizes the in-document links of a document.
type Report struct {
	Links    int            `json:"links"`
	Dangling []DanglingLink `json:"dangling,omitempty"`
}

// Check parses markdown and reports every #anchor link that does not
// resolve to one of the anchors in known. Links inside code are ignored.
func Check(markdown string, known *anchors.Map) Report {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var report Report
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		dest := string(link.Destination)
		if !strings.HasPrefix(dest, "#") {
			return ast.WalkSkipChildren, nil
		}
		report.Links++
		anchor := strings.TrimPrefix(dest, "#")
		if !known.HasAnchor(anchor) {
			report.Dangling = append(report.Dangling, DanglingLink{
				Text:   string(link.Text(src)),
				Anchor: anchor,
				Line:   lineOf(link, src),
			})
		}
		return ast.WalkSkipChildren, nil
	})
	return report
}

// lineOf returns the 1-based line of the nearest enclosing block with
// source lines, or 0 when none is found.
func lineOf(n ast.Node, src []byte) int {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() != ast.TypeBlock {
			continue
		}
		lines := p.Lines()
		if lines == nil || lines.Len() == 0 {
			continue
		}
		return bytes.Count(src[:lines.At(0).Start], []byte("\n")) + 1
	}
	return 0
}
