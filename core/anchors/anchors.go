// Package anchors computes header anchors and normalizes header lines.
// It produces the text→anchor mapping consumed by the TOC relinker.
package anchors

import (
	"regexp"
	"strings"
)

// Map is an immutable mapping from trimmed header text to its resolved
// anchor. Keys keep the order in which a text was first seen; a later
// header with identical text replaces the anchor but not the position.
type Map struct {
	keys    []string
	anchors map[string]string
}

// Entry is one text→anchor pair of a Map.
type Entry struct {
	Text   string `json:"text"`
	Anchor string `json:"anchor"`
}

// Len returns the number of distinct header texts.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Lookup returns the anchor recorded for the exact header text.
func (m *Map) Lookup(text string) (string, bool) {
	if m == nil {
		return "", false
	}
	a, ok := m.anchors[text]
	return a, ok
}

// Entries returns the pairs in first-seen order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, Entry{Text: k, Anchor: m.anchors[k]})
	}
	return out
}

// HasAnchor reports whether any header resolved to the given anchor.
func (m *Map) HasAnchor(anchor string) bool {
	if m == nil {
		return false
	}
	for _, a := range m.anchors {
		if a == anchor {
			return true
		}
	}
	return false
}

// builder accumulates a Map during a single scan. It never escapes the
// scan that owns it.
type builder struct {
	m *Map
}

func newBuilder() *builder {
	return &builder{m: &Map{anchors: make(map[string]string)}}
}

// put records text→anchor; last write wins.
func (b *builder) put(text, anchor string) {
	if _, seen := b.m.anchors[text]; !seen {
		b.m.keys = append(b.m.keys, text)
	}
	b.m.anchors[text] = anchor
}

func (b *builder) done() *Map {
	m := b.m
	b.m = nil
	return m
}

var (
	slugDisallowed  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace  = regexp.MustCompile(`\s+`)
	slugTrailing    = regexp.MustCompile(`-+$`)
	looseSlugRunner = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slug computes the canonical anchor for header text: lowercase, drop
// everything outside [a-z0-9], whitespace and '-', collapse whitespace
// runs into '-', then strip trailing hyphens.
//
//	Slug("Getting Started!")      == "getting-started"
//	Slug("  Multiple   Spaces ")  == "multiple-spaces"
func Slug(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	return slugTrailing.ReplaceAllString(s, "")
}

// LooseSlug lowercases text and replaces each run of characters outside
// [a-z0-9] with a single hyphen. Leading and trailing hyphens are kept.
func LooseSlug(text string) string {
	return looseSlugRunner.ReplaceAllString(strings.ToLower(text), "-")
}
