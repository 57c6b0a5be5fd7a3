// Package toc rewrites table-of-contents links so they target the anchors
// produced by header normalization.
package toc

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/gdocsmd/core/anchors"
)

// linkPattern matches an in-document link [text](#anchor).
var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(#([^)]+)\)`)

// IsCandidate reports whether a line may hold TOC entries. Any line whose
// left-trimmed content starts with '[' qualifies; the heuristic is
// permissive and also accepts ordinary link lines.
func IsCandidate(line string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), "[")
}

// Resolve picks the replacement anchor for a TOC link. A header whose text
// equals linkText (case-insensitively) wins; otherwise a header whose
// loose slug equals oldAnchor is used. The second return value is false
// when neither matched.
func Resolve(linkText, oldAnchor string, m *anchors.Map) (string, bool) {
	entries := m.Entries()
	for _, e := range entries {
		if strings.EqualFold(e.Text, linkText) {
			return e.Anchor, true
		}
	}
	for _, e := range entries {
		if anchors.LooseSlug(e.Text) == oldAnchor {
			return e.Anchor, true
		}
	}
	return oldAnchor, false
}

// Relink rewrites every [text](#anchor) on candidate lines to the anchor
// resolved from m. Unresolved links and non-candidate lines are left as is.
func Relink(markdown string, m *anchors.Map) string {
	if m.Len() == 0 {
		return markdown
	}

	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		if !IsCandidate(line) {
			continue
		}
		lines[i] = linkPattern.ReplaceAllStringFunc(line, func(match string) string {
			sub := linkPattern.FindStringSubmatch(match)
			linkText, oldAnchor := sub[1], sub[2]
			anchor, _ := Resolve(linkText, oldAnchor, m)
			return "[" + linkText + "](#" + anchor + ")"
		})
	}
	return strings.Join(lines, "\n")
}
